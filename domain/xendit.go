package domain

import "time"

type XenditResponse struct {
	ID                 string       `json:"id"`
	ExternalID         string       `json:"external_id"`
	UserID             string       `json:"user_id"`
	Status             string       `json:"status"`
	MerchantName       string       `json:"merchant_name"`
	Amount             int64        `json:"amount"`
	Description        string       `json:"description"`
	ExpiryDate         time.Time    `json:"expiry_date"`
	InvoiceURL         string       `json:"invoice_url"`
	SuccessRedirectURL string       `json:"success_redirect_url"`
	FailureRedirectURL string       `json:"failure_redirect_url"`
	Created            time.Time    `json:"created"`
	Updated            time.Time    `json:"updated"`
	Currency           string       `json:"currency"`
	Items              []XenditItem `json:"items"`
	Customer           Customer     `json:"customer"`
}

type XenditItem struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Price    int64  `json:"price"`
	Category string `json:"category"`
}

type Customer struct {
	Email string `json:"email"`
}
