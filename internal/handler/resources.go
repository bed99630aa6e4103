// Wiring of the generic Resource controller to the six entities, plus the
// order-specific operations that fall outside the shared CRUD contract.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/rmarchan/cine-gestion/internal/queue"
	"github.com/rmarchan/cine-gestion/internal/repository"
)

// OrderOps extends the generic store contract with the operations only
// orders have: the recent-orders feed and the order/product relation
// delete.
type OrderOps interface {
	repository.Store[repository.Order]
	Latest(ctx context.Context) ([]repository.Order, error)
	DeleteRelation(ctx context.Context, orderID, productID uint64) (repository.Order, error)
}

// Resources bundles one controller per entity.  Everything is injected so
// tests can swap the stores for in-memory fakes.
type Resources struct {
	Movies    *Resource[MovieForm, repository.Movie]
	Rooms     *Resource[RoomForm, repository.Room]
	Showtimes *Resource[ShowtimeForm, repository.Showtime]
	Payments  *Resource[PaymentMethodForm, repository.PaymentMethod]
	Products  *Resource[ProductForm, repository.Product]
	Orders    *Resource[OrderForm, repository.Order]

	orders   OrderOps
	products repository.Store[repository.Product]

	// publish announces a placed order; overridable in tests.  The default
	// sends to RabbitMQ in a goroutine and never fails the request.
	publish func(ctx context.Context, ev queue.OrderPlacedEvent)
}

// NewResources wires the per-entity controllers over the given stores.
func NewResources(
	v *validator.Validate,
	movies repository.Store[repository.Movie],
	rooms repository.Store[repository.Room],
	showtimes repository.Store[repository.Showtime],
	payments repository.Store[repository.PaymentMethod],
	products repository.Store[repository.Product],
	orders OrderOps,
) *Resources {
	rs := &Resources{
		Movies:    &Resource[MovieForm, repository.Movie]{Name: "movie", Store: movies, Validate: v, Convert: movieFromForm},
		Rooms:     &Resource[RoomForm, repository.Room]{Name: "room", Store: rooms, Validate: v, Convert: roomFromForm},
		Showtimes: &Resource[ShowtimeForm, repository.Showtime]{Name: "showtime", Store: showtimes, Validate: v, Convert: showtimeFromForm},
		Payments:  &Resource[PaymentMethodForm, repository.PaymentMethod]{Name: "payment method", Store: payments, Validate: v, Convert: paymentMethodFromForm},
		Products:  &Resource[ProductForm, repository.Product]{Name: "product", Store: products, Validate: v, Convert: productFromForm},
		Orders:    &Resource[OrderForm, repository.Order]{Name: "order", Store: orders, Validate: v, Convert: orderFromForm},
		orders:    orders,
		products:  products,
	}
	rs.publish = func(ctx context.Context, ev queue.OrderPlacedEvent) {
		go func() { _ = queue.PublishOrderPlaced(ctx, ev) }()
	}
	rs.Orders.AfterCreate = rs.announceOrder
	return rs
}

// announceOrder builds and publishes the order.placed event.  The product
// is re-read for its name and price; any failure is swallowed because the
// order itself is already committed.
func (rs *Resources) announceOrder(c echo.Context, o repository.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p, err := rs.products.Get(ctx, o.ProductID)
	if err != nil {
		c.Logger().Warnf("order %d: product lookup for event failed: %v", o.ID, err)
		return
	}
	total := p.Price.Mul(decimal.NewFromInt(int64(o.Quantity)))
	rs.publish(context.Background(), queue.OrderPlacedEvent{
		OrderID:     o.ID,
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    o.Quantity,
		UnitPrice:   p.Price.StringFixed(2),
		Total:       total.StringFixed(2),
		PlacedAt:    time.Now().UTC().Format(time.RFC3339),
	})
}

// LatestOrders handles GET /api/pedidos/ultimos: the five most recent
// orders by order date.
func (rs *Resources) LatestOrders(c echo.Context) error {
	items, err := rs.orders.Latest(c.Request().Context())
	if err != nil {
		return failFromErr(c, err, "order")
	}
	if items == nil {
		items = []repository.Order{}
	}
	return okList(c, items, len(items))
}

// DeleteOrderRelation handles
// DELETE /api/pedidos/:pedidoId/producto/:productoId.
func (rs *Resources) DeleteOrderRelation(c echo.Context) error {
	orderID, err := strconv.ParseUint(c.Param("pedidoId"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid order id")
	}
	productID, err := strconv.ParseUint(c.Param("productoId"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid product id")
	}
	deleted, err := rs.orders.DeleteRelation(c.Request().Context(), orderID, productID)
	if err != nil {
		return failFromErr(c, err, "order/product relation")
	}
	return okMsg(c, http.StatusOK, "order deleted successfully", deleted)
}
