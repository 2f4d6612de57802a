package register

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

type NoticeKind string

const (
	NoticeNotFound       NoticeKind = "not_found"
	NoticeDisconnected   NoticeKind = "disconnected"
	NoticeBusy           NoticeKind = "busy"
	NoticeSaleCompleted  NoticeKind = "sale_completed"
	NoticeCheckoutFailed NoticeKind = "checkout_failed"
	NoticeProductSaved   NoticeKind = "product_saved"
	NoticeProductInvalid NoticeKind = "product_invalid"
	NoticeSaveFailed     NoticeKind = "save_failed"
	NoticeCartVoided     NoticeKind = "cart_voided"
)

// Notice is a user-facing message raised by the controller.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Kind    NoticeKind  `json:"kind"`
	Message string      `json:"message"`
}
