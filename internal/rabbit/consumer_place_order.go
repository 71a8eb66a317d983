package rabbit

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"orders-query-service/internal/service"
)

// Consumer del evento place_order: es el flujo de ciclo de vida que
// da de alta la orden y su primer registro de historial.
type PlaceOrderConsumer struct {
	Service *service.OrderService
}

func NewPlaceOrderConsumer(s *service.OrderService) *PlaceOrderConsumer {
	return &PlaceOrderConsumer{Service: s}
}

type PlacedOrderMessage struct {
	CorrelationID string `json:"correlation_id"`
	Exchange      string `json:"exchange"`
	RoutingKey    string `json:"routing_key"`
	Message       struct {
		UserID   string  `json:"userId"`
		CartID   string  `json:"cartId"`
		Subtotal float64 `json:"subtotal"`
		Taxes    float64 `json:"taxes"`
		Discount float64 `json:"discount"`
		Total    float64 `json:"total"`
		Articles []struct {
			ArticleID string `json:"articleId"`
			Quantity  int    `json:"quantity"`
		} `json:"articles"`
	} `json:"message"`
}

func (c *PlaceOrderConsumer) Handle(msg []byte) error {
	log.Println("[Rabbit] Evento recibido: place_order")

	var event PlacedOrderMessage
	if err := json.Unmarshal(msg, &event); err != nil {
		log.Println("Error parseando mensaje:", err)
		return err
	}

	m := event.Message
	items := make([]service.PlacedItem, len(m.Articles))
	for i, a := range m.Articles {
		items[i] = service.PlacedItem{ProductID: a.ArticleID, Quantity: a.Quantity}
	}

	order, err := c.Service.PlaceOrder(
		context.Background(),
		m.UserID,
		m.Subtotal,
		m.Taxes,
		m.Discount,
		m.Total,
		items,
	)

	// Si el usuario ya tiene una orden en curso no es un error del
	// consumer: se descarta el evento y listo.
	if errors.Is(err, service.ErrOrderInProgress) {
		log.Println("Orden descartada, el usuario ya tiene una en curso:", m.UserID)
		return nil
	}
	if err != nil {
		log.Println("❌ Error creando orden:", err)
		return err
	}

	log.Println("✔ Orden creada en estado inprogress:", order.ID.Hex())
	return nil
}
