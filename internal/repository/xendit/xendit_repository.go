package xendit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golfProShop/domain"
)

type XenditConfig struct {
	XenditApi          string
	XenditUrl          string
	SuccessRedirectUrl string
	FailureRedirectUrl string
}

type XenditRepository struct {
	xenditConfig XenditConfig
}

func NewXenditRepository(cfg XenditConfig) *XenditRepository {
	return &XenditRepository{
		cfg,
	}
}

type invoiceCustomer struct {
	Email string `json:"email"`
}

type invoiceItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

type invoiceRequest struct {
	ExternalID         string          `json:"external_id"`
	Amount             float64         `json:"amount"`
	Description        string          `json:"description"`
	InvoiceDuration    int             `json:"invoice_duration"`
	Customer           invoiceCustomer `json:"customer"`
	SuccessRedirectURL string          `json:"success_redirect_url"`
	FailureRedirectURL string          `json:"failure_redirect_url"`
	Currency           string          `json:"currency"`
	Items              []invoiceItem   `json:"items"`
}

// CreateInvoice requests an invoice URL covering the given order
// lines. The external ID carries "{payment_id}|{user_id}|{order_id}"
// so the webhook can route settlement back.
func (r XenditRepository) CreateInvoice(paymentID, userID, orderID int, email string, amount float64, items []domain.OrderItem) (string, error) {
	reqItems := make([]invoiceItem, 0, len(items))
	for _, item := range items {
		reqItems = append(reqItems, invoiceItem{
			Name:     item.ProductName,
			Quantity: item.Quantity,
			Price:    item.UnitPrice,
			Category: item.Category,
		})
	}

	payload := invoiceRequest{
		ExternalID:         fmt.Sprintf("%d|%d|%d", paymentID, userID, orderID),
		Amount:             amount,
		Description:        fmt.Sprintf("golf pro shop order #%d", orderID),
		InvoiceDuration:    3600,
		Customer:           invoiceCustomer{Email: email},
		SuccessRedirectURL: r.xenditConfig.SuccessRedirectUrl,
		FailureRedirectURL: r.xenditConfig.FailureRedirectUrl,
		Currency:           "IDR",
		Items:              reqItems,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal invoice request: %w", err)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequest(http.MethodPost, r.xenditConfig.XenditUrl, strings.NewReader(string(body)))
	if err != nil {
		return "", err
	}
	req.Header.Add("Content-Type", "application/json")
	req.SetBasicAuth(r.xenditConfig.XenditApi, "")

	res, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", fmt.Errorf("xendit returned status %d", res.StatusCode)
	}

	var xenditResponse domain.XenditResponse
	if err := json.NewDecoder(res.Body).Decode(&xenditResponse); err != nil {
		return "", fmt.Errorf("failed to decode xendit response: %w", err)
	}

	return xenditResponse.InvoiceURL, nil
}
