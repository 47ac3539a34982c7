package webhookService

import (
	"sync"
	"time"

	webhookRepository "ProjectBodycheck/internal/api/webhook/repository"
	analyzerPkg "ProjectBodycheck/pkg/analyzer"
	linePkg "ProjectBodycheck/pkg/line"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IWebhookService interface {
	HandleTextMessage(ctx context.Context, userID, replyToken, text string) error
	HandleImageMessage(ctx context.Context, userID, replyToken, messageID string) error
}

type webhookService struct {
	log        *logrus.Logger
	store      webhookRepository.Store
	line       linePkg.ILineClient
	analyzer   analyzerPkg.IAnalyzer
	sessionTTL time.Duration

	// userLocks serializes slot read-modify-write per user so duplicate
	// platform deliveries cannot double-trigger an analysis.
	userLocks sync.Map

	// background tracks in-flight analysis goroutines.
	background sync.WaitGroup

	now func() time.Time
}

func NewWebhookService(
	log *logrus.Logger,
	store webhookRepository.Store,
	line linePkg.ILineClient,
	analyzer analyzerPkg.IAnalyzer,
	sessionTTL time.Duration,
) IWebhookService {
	if sessionTTL <= 0 {
		sessionTTL = webhookRepository.DefaultSessionTTL
	}
	return &webhookService{
		log:        log,
		store:      store,
		line:       line,
		analyzer:   analyzer,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

func (s *webhookService) lockUser(userID string) func() {
	v, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
