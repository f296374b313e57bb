package domain

// User-facing messages. The service answers in Vietnamese only.
const (
	MsgMissingFields         = "Vui lòng điền đầy đủ thông tin: tên, email, số điện thoại, tin nhắn và email người nhận"
	MsgInvalidEmail          = "Email không hợp lệ"
	MsgInvalidRecipientEmail = "Email người nhận không hợp lệ"
	MsgInvalidPhone          = "Số điện thoại không hợp lệ"
	MsgNameTooShort          = "Tên phải có ít nhất 2 ký tự"
	MsgInvalidBody           = "Dữ liệu gửi lên không hợp lệ"
	MsgPayloadTooLarge       = "Dữ liệu gửi lên quá lớn"

	MsgEmailSent       = "Email đã được gửi thành công!"
	MsgEmailSendFailed = "Có lỗi xảy ra khi gửi email. Vui lòng thử lại sau."

	MsgHealthy            = "API đang hoạt động bình thường"
	MsgEmailConfigValid   = "Cấu hình email hợp lệ"
	MsgEmailConfigInvalid = "Cấu hình email không hợp lệ"

	MsgTooManyRequests = "Quá nhiều yêu cầu từ IP này, vui lòng thử lại sau 15 phút"
	MsgNotFound        = "Endpoint không tồn tại"
	MsgInternalError   = "Lỗi server không xác định"
)
