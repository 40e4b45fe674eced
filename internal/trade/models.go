package trade

// Message1 is the first message of the trade exchange. Field names follow the
// partner wire format and are kept verbatim.
type Message1 struct {
	TradeID           uint32 `json:"TradeID"`
	SellerID          string `json:"SellerID"`
	BuyerID           string `json:"BuyerID"`
	ISD               string `json:"ISD"`
	Amount            uint32 `json:"Amount"`
	HTLCSecret        string `json:"HTLCSecret"`
	HTLCDeadlineEpoch uint32 `json:"HTLCDeadlineEpoch"`
	NetworkID         string `json:"networkID"`
}

// Ack is the fixed acknowledgement returned for every accepted message.
type Ack struct {
	Message string `json:"message"`
}

var ackOK = Ack{Message: "ok"}
