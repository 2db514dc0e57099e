package appointment

import (
	"fmt"
	"strings"
)

// RejectionPolicy is what happens to an appointment whose voucher is rejected.
// There is no default: deployments must choose one.
type RejectionPolicy string

const (
	RejectionKeepPending RejectionPolicy = "keep_pending"
	RejectionCancel      RejectionPolicy = "cancel"
)

func ParseRejectionPolicy(s string) (RejectionPolicy, error) {
	switch p := RejectionPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case RejectionKeepPending, RejectionCancel:
		return p, nil
	case "":
		return "", fmt.Errorf("voucher rejection policy is not configured")
	default:
		return "", fmt.Errorf("unknown voucher rejection policy %q", s)
	}
}

type PaymentOutcome string

const (
	OutcomeApprove PaymentOutcome = "approve"
	OutcomeReject  PaymentOutcome = "reject"
)

const PaymentCash = "cash"

// IsCash treats an empty method as cash, the walk-in default.
func IsCash(method string) bool {
	m := strings.ToLower(strings.TrimSpace(method))
	return m == "" || m == PaymentCash || m == "efectivo" || m == "dinheiro"
}
