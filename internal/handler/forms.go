// Form DTOs for every resource, plus the Convert functions turning a
// validated form into its entity.  Tags carry the declarative rules;
// Convert handles the checks that need runtime data (the movie year upper
// bound, decimal and datetime parsing).
package handler

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/rmarchan/cine-gestion/internal/repository"
)

// NewValidator builds the validator shared by all resources.
func NewValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// MovieForm carries titulo/anio/duracion from JSON or form submissions.
type MovieForm struct {
	Title    string `json:"titulo" form:"titulo" validate:"required"`
	Year     int    `json:"anio" form:"anio" validate:"required,min=1900"`
	Duration int    `json:"duracion" form:"duracion" validate:"required,gt=0"`
}

func movieFromForm(f MovieForm) (repository.Movie, error) {
	// The upper bound moves with the clock, so it cannot live in a tag.
	if f.Year > time.Now().Year()+5 {
		return repository.Movie{}, repository.Invalid("invalid year")
	}
	return repository.Movie{Title: f.Title, Year: f.Year, Duration: f.Duration}, nil
}

type RoomForm struct {
	Name     string `json:"nombre" form:"nombre" validate:"required"`
	Capacity int    `json:"capacidad" form:"capacidad" validate:"required,gt=0"`
}

func roomFromForm(f RoomForm) (repository.Room, error) {
	return repository.Room{Name: f.Name, Capacity: f.Capacity}, nil
}

// ShowtimeForm references a movie and a room by id.  fecha_hora accepts
// RFC 3339 or the common SQL/HTML datetime spellings.
type ShowtimeForm struct {
	MovieID  uint64 `json:"id_pelicula" form:"id_pelicula" validate:"required"`
	RoomID   uint64 `json:"id_sala" form:"id_sala" validate:"required"`
	StartsAt string `json:"fecha_hora" form:"fecha_hora" validate:"required"`
}

var showtimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

func showtimeFromForm(f ShowtimeForm) (repository.Showtime, error) {
	var ts time.Time
	var err error
	for _, layout := range showtimeLayouts {
		if ts, err = time.Parse(layout, f.StartsAt); err == nil {
			break
		}
	}
	if err != nil {
		return repository.Showtime{}, repository.Invalid("invalid fecha_hora format")
	}
	return repository.Showtime{MovieID: f.MovieID, RoomID: f.RoomID, StartsAt: ts.UTC()}, nil
}

type PaymentMethodForm struct {
	Name string `json:"nombre" form:"nombre" validate:"required"`
}

func paymentMethodFromForm(f PaymentMethodForm) (repository.PaymentMethod, error) {
	return repository.PaymentMethod{Name: f.Name}, nil
}

// priceString carries the raw price text.  JSON clients may send 5.50 or
// "5.50" and HTML forms a plain string; the value is re-parsed into a
// decimal without ever becoming a float.
type priceString string

func (p *priceString) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	*p = priceString(s)
	return nil
}

// ProductForm's Stock is a pointer so zero is distinguishable from absent.
type ProductForm struct {
	Name        string      `json:"nombre" form:"nombre" validate:"required"`
	Description string      `json:"descripcion" form:"descripcion" validate:"required"`
	Price       priceString `json:"precio" form:"precio" validate:"required"`
	Stock       *int        `json:"stock" form:"stock" validate:"required,min=0"`
}

func productFromForm(f ProductForm) (repository.Product, error) {
	price, err := decimal.NewFromString(string(f.Price))
	if err != nil {
		return repository.Product{}, repository.Invalid("invalid price")
	}
	if price.IsNegative() {
		return repository.Product{}, repository.Invalid("price must be zero or greater")
	}
	return repository.Product{
		Name:        f.Name,
		Description: f.Description,
		Price:       price,
		Stock:       *f.Stock,
	}, nil
}

type OrderForm struct {
	ProductID uint64 `json:"producto_id" form:"producto_id" validate:"required"`
	Quantity  int    `json:"cantidad" form:"cantidad" validate:"required,gt=0"`
}

func orderFromForm(f OrderForm) (repository.Order, error) {
	return repository.Order{ProductID: f.ProductID, Quantity: f.Quantity}, nil
}
