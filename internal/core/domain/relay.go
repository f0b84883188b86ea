package domain

// UploadedMedia is the reference returned by the media host.
type UploadedMedia struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

// Payer identifies the party charged by a mobile-money collection.
type Payer struct {
	PartyIDType string `json:"partyIdType"`
	PartyID     string `json:"partyId"`
}

// PaymentRequest is a request-to-pay sent to the mobile-money gateway.
type PaymentRequest struct {
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
	ExternalID   string `json:"externalId"`
	Payer        Payer  `json:"payer"`
	PayerMessage string `json:"payerMessage"`
	PayeeNote    string `json:"payeeNote"`
}

// Transaction is the gateway's view of a request-to-pay.
type Transaction struct {
	ReferenceID            string `json:"referenceId"`
	Amount                 string `json:"amount"`
	Currency               string `json:"currency"`
	FinancialTransactionID string `json:"financialTransactionId,omitempty"`
	ExternalID             string `json:"externalId"`
	Payer                  Payer  `json:"payer"`
	Status                 string `json:"status"`
	Reason                 string `json:"reason,omitempty"`
}

// Email is an outbound HTML message.
type Email struct {
	To      string
	Subject string
	HTML    string
}
