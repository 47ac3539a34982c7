package line

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/line/line-bot-sdk-go/v7/linebot"
	"github.com/sirupsen/logrus"
)

// ILineClient wraps the subset of the Messaging API the bot needs: webhook
// parsing, text replies, out-of-band pushes, and image content retrieval.
type ILineClient interface {
	ParseWebhook(ctx *fiber.Ctx) ([]*linebot.Event, error)
	ReplyText(replyToken string, text string) error
	PushText(userID string, text string) error
	GetImageContent(messageID string) ([]byte, error)
}

type lineClient struct {
	client *linebot.Client
	log    *logrus.Logger
}

func New(log *logrus.Logger) (ILineClient, error) {
	secret := os.Getenv("LINE_CHANNEL_SECRET")
	token := os.Getenv("LINE_CHANNEL_ACCESS_TOKEN")

	client, err := linebot.New(secret, token)
	if err != nil {
		return nil, fmt.Errorf("failed to create LINE client: %w", err)
	}

	return &lineClient{
		client: client,
		log:    log,
	}, nil
}

// ParseWebhook verifies the X-Line-Signature header and decodes the event
// batch. The SDK parser wants an *http.Request, so the fiber request is
// wrapped the minimal way.
func (l *lineClient) ParseWebhook(ctx *fiber.Ctx) ([]*linebot.Event, error) {
	return l.client.ParseRequest(convertToHTTPRequest(ctx))
}

func convertToHTTPRequest(ctx *fiber.Ctx) *http.Request {
	headers := http.Header{}
	ctx.Request().Header.VisitAll(func(key, value []byte) {
		headers.Set(string(key), string(value))
	})

	return &http.Request{
		Method: ctx.Method(),
		URL:    nil,
		Header: headers,
		Body:   io.NopCloser(bytes.NewReader(ctx.Body())),
	}
}

func (l *lineClient) ReplyText(replyToken string, text string) error {
	if _, err := l.client.ReplyMessage(replyToken, linebot.NewTextMessage(text)).Do(); err != nil {
		l.log.Errorf("LINE reply_message failed: %v", err)
		return err
	}
	return nil
}

func (l *lineClient) PushText(userID string, text string) error {
	if _, err := l.client.PushMessage(userID, linebot.NewTextMessage(text)).Do(); err != nil {
		l.log.Errorf("LINE push_message failed: %v", err)
		return err
	}
	return nil
}

// GetImageContent fetches the photo bytes for a message ID. The SDK hands
// back a stream; this always yields a fully-read byte slice so nothing
// downstream has to care about the transport shape.
func (l *lineClient) GetImageContent(messageID string) ([]byte, error) {
	resp, err := l.client.GetMessageContent(messageID).Do()
	if err != nil {
		l.log.Errorf("LINE get_message_content failed for %s: %v", messageID, err)
		return nil, err
	}
	defer resp.Content.Close()

	data, err := io.ReadAll(resp.Content)
	if err != nil {
		l.log.Errorf("Failed reading message content for %s: %v", messageID, err)
		return nil, err
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("empty content for message %s", messageID)
	}

	return data, nil
}
