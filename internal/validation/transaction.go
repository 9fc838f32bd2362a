package validation

import (
	"github.com/upishield/upishield/internal/models"
	"github.com/upishield/upishield/internal/services/scoring"
)

// DetectRequest validates a scoring request. Amount must be positive and
// below the configured ceiling; both UPI handles must look like
// local-part@provider.
func (v *Validator) DetectRequest(req *scoring.Request, maxAmount float64) {
	v.Required("amount", req.Amount)
	if req.Amount != 0 {
		v.Range("amount", req.Amount, MinTransactionAmount, maxAmount)
	}

	v.Required("senderUpiId", req.SenderUpiID)
	if req.SenderUpiID != "" {
		v.UpiID("senderUpiId", req.SenderUpiID)
		v.MaxLength("senderUpiId", req.SenderUpiID, MaxUpiIDLength)
	}

	v.Required("receiverUpiId", req.ReceiverUpiID)
	if req.ReceiverUpiID != "" {
		v.UpiID("receiverUpiId", req.ReceiverUpiID)
		v.MaxLength("receiverUpiId", req.ReceiverUpiID, MaxUpiIDLength)
	}

	if req.TransactionType != "" {
		v.OneOf("transactionType", req.TransactionType,
			models.TransactionTypeP2P, models.TransactionTypeP2M, models.TransactionTypeBusiness)
	}

	v.MaxLength("location", req.Location, MaxLocationLength)
}

// ReviewRequest validates a manual review action on a transaction.
func (v *Validator) ReviewRequest(status, notes string) {
	v.OneOf("status", status, models.StatusApproved, models.StatusBlocked, models.StatusFlagged)
	v.MaxLength("reviewNotes", notes, MaxReviewNotesLength)
}
