package entity

import (
	"strings"
)

// Instruction tells the customer how to complete a cash or transfer
// payment registered through the register-order API: where to send the
// money and under which title.
type Instruction struct {
	OperationNumber string       `json:"operation_number" bson:"operation_number"`
	BankAccount     *BankAccount `json:"bank_account,omitempty" bson:"bank_account,omitempty"`
	ChannelId       int          `json:"channel_id" bson:"channel_id"`
	Hash            string       `json:"hash" bson:"hash"`
	Amount          string       `json:"amount" bson:"amount"`
	Currency        string       `json:"currency" bson:"currency"`
	IsCash          bool         `json:"is_cash" bson:"is_cash"`
	Title           string       `json:"title" bson:"title"`
}

// InstructionHashFromUrl extracts the instruction hash: the last path
// segment of the gateway's instruction URL.
func InstructionHashFromUrl(instructionUrl string) string {
	trimmed := strings.TrimRight(instructionUrl, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return ""
	}
	return trimmed[idx+1:]
}
