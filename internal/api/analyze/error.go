package analyze

import (
	"ProjectBodycheck/pkg/response"
	"errors"
	"net/http"
)

var (
	// ErrMissingImage is returned when a request carries neither a front
	// nor a side image.
	ErrMissingImage = errors.New("no image supplied")

	ErrInternalServerError = response.NewError(http.StatusInternalServerError, "internal server error")
)

// Japanese user-facing messages, carried over from the bot's contract.
const (
	MsgMissingImage   = "画像が含まれていません。"
	MsgImageDecode    = "画像の読み込みに失敗しました。"
	MsgNoPoseDetected = "姿勢が検出できませんでした。全身が写っている画像を使用してください。"
)
