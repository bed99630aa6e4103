// Entity descriptors for the web surface: columns, form fields and the
// string projections feeding the two shared templates.
package handler

import (
	"strconv"

	"github.com/rmarchan/cine-gestion/internal/repository"
)

// WebResources bundles the HTML controllers for every entity.
type WebResources struct {
	Movies    *WebResource[MovieForm, repository.Movie]
	Rooms     *WebResource[RoomForm, repository.Room]
	Showtimes *WebResource[ShowtimeForm, repository.Showtime]
	Payments  *WebResource[PaymentMethodForm, repository.PaymentMethod]
	Products  *WebResource[ProductForm, repository.Product]
	Orders    *WebResource[OrderForm, repository.Order]
}

func u64(v uint64) string { return strconv.FormatUint(v, 10) }

// NewWebResources derives the web controllers from the API ones.
func NewWebResources(rs *Resources) *WebResources {
	return &WebResources{
		Movies: &WebResource[MovieForm, repository.Movie]{
			Res:     rs.Movies,
			Slug:    "peliculas",
			Title:   "Películas",
			Columns: []string{"ID", "Título", "Año", "Duración (min)"},
			FormFields: []FormField{
				{Name: "titulo", Label: "Título", Type: "text"},
				{Name: "anio", Label: "Año", Type: "number"},
				{Name: "duracion", Label: "Duración (min)", Type: "number"},
			},
			Row: func(m repository.Movie) []string {
				return []string{u64(m.ID), m.Title, strconv.Itoa(m.Year), strconv.Itoa(m.Duration)}
			},
			ItemID: func(m repository.Movie) uint64 { return m.ID },
			FormValues: func(f MovieForm) map[string]string {
				return map[string]string{
					"titulo":   f.Title,
					"anio":     strconv.Itoa(f.Year),
					"duracion": strconv.Itoa(f.Duration),
				}
			},
			ItemValues: func(m repository.Movie) map[string]string {
				return map[string]string{
					"titulo":   m.Title,
					"anio":     strconv.Itoa(m.Year),
					"duracion": strconv.Itoa(m.Duration),
				}
			},
		},
		Rooms: &WebResource[RoomForm, repository.Room]{
			Res:     rs.Rooms,
			Slug:    "salas",
			Title:   "Salas",
			Columns: []string{"ID", "Nombre", "Capacidad"},
			FormFields: []FormField{
				{Name: "nombre", Label: "Nombre", Type: "text"},
				{Name: "capacidad", Label: "Capacidad", Type: "number"},
			},
			Row: func(s repository.Room) []string {
				return []string{u64(s.ID), s.Name, strconv.Itoa(s.Capacity)}
			},
			ItemID: func(s repository.Room) uint64 { return s.ID },
			FormValues: func(f RoomForm) map[string]string {
				return map[string]string{"nombre": f.Name, "capacidad": strconv.Itoa(f.Capacity)}
			},
			ItemValues: func(s repository.Room) map[string]string {
				return map[string]string{"nombre": s.Name, "capacidad": strconv.Itoa(s.Capacity)}
			},
		},
		Showtimes: &WebResource[ShowtimeForm, repository.Showtime]{
			Res:     rs.Showtimes,
			Slug:    "funciones",
			Title:   "Funciones",
			Columns: []string{"ID", "Película", "Sala", "Fecha y hora"},
			FormFields: []FormField{
				{Name: "id_pelicula", Label: "Película (ID)", Type: "number"},
				{Name: "id_sala", Label: "Sala (ID)", Type: "number"},
				{Name: "fecha_hora", Label: "Fecha y hora", Type: "datetime-local"},
			},
			Row: func(f repository.Showtime) []string {
				return []string{u64(f.ID), u64(f.MovieID), u64(f.RoomID),
					f.StartsAt.Format("2006-01-02 15:04")}
			},
			ItemID: func(f repository.Showtime) uint64 { return f.ID },
			FormValues: func(f ShowtimeForm) map[string]string {
				return map[string]string{
					"id_pelicula": u64(f.MovieID),
					"id_sala":     u64(f.RoomID),
					"fecha_hora":  f.StartsAt,
				}
			},
			ItemValues: func(f repository.Showtime) map[string]string {
				return map[string]string{
					"id_pelicula": u64(f.MovieID),
					"id_sala":     u64(f.RoomID),
					"fecha_hora":  f.StartsAt.Format("2006-01-02T15:04"),
				}
			},
		},
		Payments: &WebResource[PaymentMethodForm, repository.PaymentMethod]{
			Res:     rs.Payments,
			Slug:    "metodos-pago",
			Title:   "Métodos de pago",
			Columns: []string{"ID", "Nombre"},
			FormFields: []FormField{
				{Name: "nombre", Label: "Nombre", Type: "text"},
			},
			Row: func(p repository.PaymentMethod) []string {
				return []string{u64(p.ID), p.Name}
			},
			ItemID: func(p repository.PaymentMethod) uint64 { return p.ID },
			FormValues: func(f PaymentMethodForm) map[string]string {
				return map[string]string{"nombre": f.Name}
			},
			ItemValues: func(p repository.PaymentMethod) map[string]string {
				return map[string]string{"nombre": p.Name}
			},
		},
		Products: &WebResource[ProductForm, repository.Product]{
			Res:     rs.Products,
			Slug:    "productos",
			Title:   "Productos",
			Columns: []string{"ID", "Nombre", "Descripción", "Precio", "Stock", "Creado"},
			FormFields: []FormField{
				{Name: "nombre", Label: "Nombre", Type: "text"},
				{Name: "descripcion", Label: "Descripción", Type: "text"},
				{Name: "precio", Label: "Precio", Type: "text"},
				{Name: "stock", Label: "Stock", Type: "number"},
			},
			Row: func(p repository.Product) []string {
				return []string{u64(p.ID), p.Name, p.Description,
					p.Price.StringFixed(2), strconv.Itoa(p.Stock),
					p.CreatedDate.Format("2006-01-02")}
			},
			ItemID: func(p repository.Product) uint64 { return p.ID },
			FormValues: func(f ProductForm) map[string]string {
				stock := ""
				if f.Stock != nil {
					stock = strconv.Itoa(*f.Stock)
				}
				return map[string]string{
					"nombre":      f.Name,
					"descripcion": f.Description,
					"precio":      string(f.Price),
					"stock":       stock,
				}
			},
			ItemValues: func(p repository.Product) map[string]string {
				return map[string]string{
					"nombre":      p.Name,
					"descripcion": p.Description,
					"precio":      p.Price.StringFixed(2),
					"stock":       strconv.Itoa(p.Stock),
				}
			},
		},
		Orders: &WebResource[OrderForm, repository.Order]{
			Res:     rs.Orders,
			Slug:    "pedidos",
			Title:   "Pedidos",
			Columns: []string{"ID", "Producto (ID)", "Cantidad", "Fecha"},
			FormFields: []FormField{
				{Name: "producto_id", Label: "Producto (ID)", Type: "number"},
				{Name: "cantidad", Label: "Cantidad", Type: "number"},
			},
			Row: func(o repository.Order) []string {
				return []string{u64(o.ID), u64(o.ProductID), strconv.Itoa(o.Quantity),
					o.OrderDate.Format("2006-01-02")}
			},
			ItemID: func(o repository.Order) uint64 { return o.ID },
			FormValues: func(f OrderForm) map[string]string {
				return map[string]string{
					"producto_id": u64(f.ProductID),
					"cantidad":    strconv.Itoa(f.Quantity),
				}
			},
			ItemValues: func(o repository.Order) map[string]string {
				return map[string]string{
					"producto_id": u64(o.ProductID),
					"cantidad":    strconv.Itoa(o.Quantity),
				}
			},
		},
	}
}
