package domain

const (
	RoleAdmin    = "ADMIN"
	RoleOperator = "OPERATOR"
)

// Notification severities, ordered low < medium < high < critical.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

var severityRank = map[string]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// SeverityRank returns the ordinal of a severity; unknown values rank below low.
func SeverityRank(s string) int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return -1
}

// Notification triage statuses. Severity and type are assigned once at
// creation; status is the only mutable classification field.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusDismissed  = "dismissed"
)

// CanTransition reports whether a notification may move from one status to
// another. Resolved and dismissed are terminal.
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusInProgress || to == StatusResolved || to == StatusDismissed
	case StatusInProgress:
		return to == StatusResolved || to == StatusDismissed
	default:
		return false
	}
}

// Error taxonomy used by the tracker.
const (
	ErrTypeNetwork        = "NETWORK_ERROR"
	ErrTypeAuthentication = "AUTHENTICATION_ERROR"
	ErrTypePermission     = "PERMISSION_ERROR"
	ErrTypeValidation     = "VALIDATION_ERROR"
	ErrTypeTimeout        = "TIMEOUT_ERROR"
	ErrTypeFile           = "FILE_ERROR"
	ErrTypeData           = "DATA_ERROR"
	ErrTypeAPI            = "API_ERROR"
	ErrTypeUnknown        = "UNKNOWN_ERROR"
)

// Tracked business operations.
const (
	OpClaimOrder         = "claim_order"
	OpBulkClaimOrders    = "bulk_claim_orders"
	OpReverseOrder       = "reverse_order"
	OpBulkReverseOrders  = "bulk_reverse_orders"
	OpMarkReady          = "mark_ready"
	OpBulkMarkReady      = "bulk_mark_ready"
	OpDownloadLabel      = "download_label"
	OpBulkDownloadLabels = "bulk_download_labels"
	OpFetchOrders        = "fetch_orders"
	OpExportOrders       = "export_orders"
)

// OperationTitles maps an operation to the human title used on its failure
// notification. Unmapped operations fall back to the raw identifier.
var OperationTitles = map[string]string{
	OpClaimOrder:         "Order Claim Failed",
	OpBulkClaimOrders:    "Bulk Order Claim Failed",
	OpReverseOrder:       "Order Reversal Failed",
	OpBulkReverseOrders:  "Bulk Order Reversal Failed",
	OpMarkReady:          "Mark Ready Failed",
	OpBulkMarkReady:      "Bulk Mark Ready Failed",
	OpDownloadLabel:      "Label Download Failed",
	OpBulkDownloadLabels: "Bulk Label Download Failed",
	OpFetchOrders:        "Order Fetch Failed",
	OpExportOrders:       "Order Export Failed",
}

// Notification type tags.
const (
	NotifTypeOrderClaim    = "order-claim-error"
	NotifTypeOrderReversal = "order-reversal-error"
	NotifTypeOrderReady    = "order-ready-error"
	NotifTypeLabelDownload = "label-download-error"
	NotifTypeOrderSync     = "order-sync-error"
	NotifTypeSystem        = "system-error"
)

// OperationNotifTypes maps an operation to its notification type tag.
var OperationNotifTypes = map[string]string{
	OpClaimOrder:         NotifTypeOrderClaim,
	OpBulkClaimOrders:    NotifTypeOrderClaim,
	OpReverseOrder:       NotifTypeOrderReversal,
	OpBulkReverseOrders:  NotifTypeOrderReversal,
	OpMarkReady:          NotifTypeOrderReady,
	OpBulkMarkReady:      NotifTypeOrderReady,
	OpDownloadLabel:      NotifTypeLabelDownload,
	OpBulkDownloadLabels: NotifTypeLabelDownload,
	OpFetchOrders:        NotifTypeOrderSync,
	OpExportOrders:       NotifTypeOrderSync,
}

// Order lifecycle statuses.
const (
	OrderUnclaimed   = "UNCLAIMED"
	OrderClaimed     = "CLAIMED"
	OrderReadyToShip = "READY_TO_SHIP"
	OrderReversed    = "REVERSED"
)
