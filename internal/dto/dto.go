// dto.go
package dto

// OrderStatusRequest lo usan create y update de estados.
type OrderStatusRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"required,min=1,max=500"`
	// Puntero para distinguir "no vino" (default true) de false.
	Active *bool `json:"active"`
}

func (r OrderStatusRequest) IsActive() bool {
	if r.Active == nil {
		return true
	}
	return *r.Active
}

type PaginationQuery struct {
	Skip  int64 `form:"skip,default=0" binding:"gte=0"`
	Limit int64 `form:"limit,default=10" binding:"gte=0"`
}

type SearchQuery struct {
	Term  string `form:"q" binding:"required"`
	Skip  int64  `form:"skip,default=0" binding:"gte=0"`
	Limit int64  `form:"limit,default=10" binding:"gte=0"`
}
