package serializer

import "encoding/gob"

// Response 基础序列化器
type Response struct {
	Code  int         `json:"code"`
	Data  interface{} `json:"data,omitempty"`
	Msg   string      `json:"msg"`
	Error string      `json:"error,omitempty"`
	// Notices are pending flash messages, only filled on views.
	Notices []Notice `json:"notices,omitempty"`
}

// NewResponse wraps data into a successful response.
func NewResponse(data interface{}, msg string) Response {
	return Response{Data: data, Msg: msg}
}

// NoticeLevel mirrors the category of a flashed message.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeDanger  NoticeLevel = "danger"
)

// Notice is a one-shot message kept in the session until the next view.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// NoticeFromResponse derives the flash notice for a finished operation.
func NoticeFromResponse(r Response) Notice {
	level := NoticeSuccess
	if r.Code != 0 {
		level = NoticeDanger
	}
	return Notice{Level: level, Message: r.Msg}
}

func init() {
	gob.Register(Notice{})
	gob.Register([]interface{}{})
}
