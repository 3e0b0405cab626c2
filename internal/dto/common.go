package dto

// Paginacion is embedded in every list filter bound from the query string.
type Paginacion struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=50" validate:"min=1,max=200"`
}

// Normalizar clamps page/limit to the accepted range.
func (p *Paginacion) Normalizar() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 || p.Limit > 200 {
		p.Limit = 50
	}
}

func (p Paginacion) Offset() int { return (p.Page - 1) * p.Limit }

// ListResponse is the envelope of every paginated list endpoint.
type ListResponse[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// FechaLayout is the date format accepted in requests and filters.
const FechaLayout = "2006-01-02"
