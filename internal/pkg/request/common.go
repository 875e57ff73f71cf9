package request

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
type ByIDRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// ListParams is the page/page_size pair used by paginated admin listings.
type ListParams struct {
	Page     int `form:"page,default=1" binding:"min=1"`
	PageSize int `form:"page_size,default=20" binding:"min=1,max=100"`
}

// WindowParams is the from/size offset window used by booking and request listings.
// A zero Size means no limit.
type WindowParams struct {
	From int `form:"from,default=0" binding:"min=0"`
	Size int `form:"size,default=0" binding:"min=0,max=1000"`
}
