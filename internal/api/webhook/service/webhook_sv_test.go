package webhookService

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"ProjectBodycheck/internal/api/webhook"
	webhookRepository "ProjectBodycheck/internal/api/webhook/repository"
	"ProjectBodycheck/internal/entity"
	analyzerPkg "ProjectBodycheck/pkg/analyzer"
	"github.com/gofiber/fiber/v2"
	"github.com/line/line-bot-sdk-go/v7/linebot"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type stubStore struct {
	mu       sync.Mutex
	sessions map[string]entity.UserSession
	failPut  error
}

func newStubStore() *stubStore {
	return &stubStore{sessions: make(map[string]entity.UserSession)}
}

func (s *stubStore) Get(_ context.Context, userID string) (entity.UserSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[userID]
	if !ok {
		return entity.UserSession{}, webhook.ErrSessionNotFound
	}
	return session, nil
}

func (s *stubStore) Put(_ context.Context, session entity.UserSession) error {
	if s.failPut != nil {
		return s.failPut
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.UserID] = session
	return nil
}

func (s *stubStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

type stubLine struct {
	mu       sync.Mutex
	replies  []string
	pushes   []string
	image    []byte
	imageErr error
}

func (l *stubLine) ParseWebhook(_ *fiber.Ctx) ([]*linebot.Event, error) { return nil, nil }

func (l *stubLine) ReplyText(_ string, text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.replies = append(l.replies, text)
	return nil
}

func (l *stubLine) PushText(_ string, text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pushes = append(l.pushes, text)
	return nil
}

func (l *stubLine) GetImageContent(_ string) ([]byte, error) {
	if l.imageErr != nil {
		return nil, l.imageErr
	}
	return l.image, nil
}

func (l *stubLine) lastReply() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.replies) == 0 {
		return ""
	}
	return l.replies[len(l.replies)-1]
}

func (l *stubLine) allPushes() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.pushes...)
}

type stubAnalyzer struct {
	mu     sync.Mutex
	result *entity.AnalysisResult
	err    error
	calls  int
	fronts [][]byte
	sides  [][]byte
}

func (a *stubAnalyzer) AnalyzePair(_ context.Context, front, side []byte) (*entity.AnalysisResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	a.fronts = append(a.fronts, front)
	a.sides = append(a.sides, side)
	if a.err != nil {
		return nil, a.err
	}
	return a.result, nil
}

func (a *stubAnalyzer) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// jpegBytes encodes a solid-color JPEG so the photos pass the content
// sniff and distinct colors yield distinct byte slices.
func jpegBytes(t *testing.T, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func okResult() *entity.AnalysisResult {
	return &entity.AnalysisResult{
		Scores: entity.ScoreRecord{Overall: 9.5, Posture: 8.5, Balance: 9.0, MuscleFat: 8.0, Fashion: 9.0},
		Advice: []string{"背筋を伸ばして、肩を軽く後ろに引く意識を持ちましょう。"},
	}
}

func newTestService(store webhookRepository.Store, line *stubLine, analyzer *stubAnalyzer) *webhookService {
	return &webhookService{
		log:        testLogger(),
		store:      store,
		line:       line,
		analyzer:   analyzer,
		sessionTTL: webhookRepository.DefaultSessionTTL,
		now:        time.Now,
	}
}

func TestTextStartResetsSession(t *testing.T) {
	store := newStubStore()
	line := &stubLine{}
	svc := newTestService(store, line, &stubAnalyzer{})

	store.sessions["U1"] = entity.UserSession{UserID: "U1", Front: []byte("old"), UpdatedAt: time.Now()}

	if err := svc.HandleTextMessage(context.Background(), "U1", "rt", "開始"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := store.sessions["U1"]; ok {
		t.Error("session should have been cleared")
	}
	if line.lastReply() != msgStart {
		t.Errorf("reply = %q, want the start guidance", line.lastReply())
	}
}

func TestTextDeclareSlot(t *testing.T) {
	store := newStubStore()
	line := &stubLine{}
	svc := newTestService(store, line, &stubAnalyzer{})

	if err := svc.HandleTextMessage(context.Background(), "U1", "rt", "  Front "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	session := store.sessions["U1"]
	if session.Expect != entity.SlotFront {
		t.Errorf("Expect = %q, want front", session.Expect)
	}
	if !strings.Contains(line.lastReply(), "front") {
		t.Errorf("reply = %q, want front acknowledgement", line.lastReply())
	}
}

func TestTextUnknownGetsHelp(t *testing.T) {
	line := &stubLine{}
	svc := newTestService(newStubStore(), line, &stubAnalyzer{})

	if err := svc.HandleTextMessage(context.Background(), "U1", "rt", "こんにちは"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line.lastReply() != msgHelp {
		t.Errorf("reply = %q, want help menu", line.lastReply())
	}
}

func TestImagePairTriggersOneAnalysis(t *testing.T) {
	frontImg := jpegBytes(t, color.RGBA{R: 255, A: 255})
	sideImg := jpegBytes(t, color.RGBA{B: 255, A: 255})

	store := newStubStore()
	line := &stubLine{image: frontImg}
	analyzer := &stubAnalyzer{result: okResult()}
	svc := newTestService(store, line, analyzer)
	ctx := context.Background()

	if err := svc.HandleImageMessage(ctx, "U1", "rt1", "m1"); err != nil {
		t.Fatalf("first image: %v", err)
	}
	if session := store.sessions["U1"]; session.State() != entity.SessionHasFront {
		t.Fatalf("state after first image = %v, want HAS_FRONT", session.State())
	}

	line.image = sideImg
	if err := svc.HandleImageMessage(ctx, "U1", "rt2", "m2"); err != nil {
		t.Fatalf("second image: %v", err)
	}
	if line.lastReply() != msgAnalyzing {
		t.Errorf("reply = %q, want analyzing acknowledgement", line.lastReply())
	}

	svc.background.Wait()

	if analyzer.callCount() != 1 {
		t.Fatalf("analyzer called %d times, want exactly 1", analyzer.callCount())
	}
	if !bytes.Equal(analyzer.fronts[0], frontImg) || !bytes.Equal(analyzer.sides[0], sideImg) {
		t.Error("analyzer did not receive the collected pair")
	}
	if _, ok := store.sessions["U1"]; ok {
		t.Error("completed session should have been consumed")
	}

	pushes := line.allPushes()
	if len(pushes) != 1 || !strings.Contains(pushes[0], "総合スコア") {
		t.Errorf("pushes = %v, want one formatted result", pushes)
	}
}

func TestDeclaredSlotOverwrites(t *testing.T) {
	firstImg := jpegBytes(t, color.RGBA{R: 255, A: 255})
	retakeImg := jpegBytes(t, color.RGBA{G: 255, A: 255})

	store := newStubStore()
	line := &stubLine{image: firstImg}
	svc := newTestService(store, line, &stubAnalyzer{result: okResult()})
	ctx := context.Background()

	if err := svc.HandleTextMessage(ctx, "U1", "rt", "front"); err != nil {
		t.Fatal(err)
	}
	if err := svc.HandleImageMessage(ctx, "U1", "rt", "m1"); err != nil {
		t.Fatal(err)
	}

	// Declaring front again replaces the stored photo instead of
	// spilling into the side slot.
	if err := svc.HandleTextMessage(ctx, "U1", "rt", "front"); err != nil {
		t.Fatal(err)
	}
	line.image = retakeImg
	if err := svc.HandleImageMessage(ctx, "U1", "rt", "m2"); err != nil {
		t.Fatal(err)
	}

	session := store.sessions["U1"]
	if session.State() != entity.SessionHasFront {
		t.Fatalf("state = %v, want HAS_FRONT", session.State())
	}
	if !bytes.Equal(session.Front, retakeImg) {
		t.Error("Front should hold the fresher capture")
	}
}

func TestImageFetchFailureLeavesSlotEmpty(t *testing.T) {
	store := newStubStore()
	line := &stubLine{imageErr: errors.New("content gone")}
	svc := newTestService(store, line, &stubAnalyzer{})

	if err := svc.HandleImageMessage(context.Background(), "U1", "rt", "m1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if line.lastReply() != msgFetchFailed {
		t.Errorf("reply = %q, want fetch failure guidance", line.lastReply())
	}
	if _, ok := store.sessions["U1"]; ok {
		t.Error("no slot should have been stored")
	}
}

func TestUnreadableImageLeavesSlotEmpty(t *testing.T) {
	store := newStubStore()
	line := &stubLine{image: []byte("definitely not a photo")}
	svc := newTestService(store, line, &stubAnalyzer{})

	if err := svc.HandleImageMessage(context.Background(), "U1", "rt", "m1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if line.lastReply() != msgUnreadableImage {
		t.Errorf("reply = %q, want the unreadable-image guidance", line.lastReply())
	}
	if _, ok := store.sessions["U1"]; ok {
		t.Error("garbage bytes must not fill a slot")
	}
}

func TestAnalyzerGuidanceRelayedVerbatim(t *testing.T) {
	store := newStubStore()
	line := &stubLine{image: jpegBytes(t, color.RGBA{R: 255, A: 255})}
	analyzer := &stubAnalyzer{err: &analyzerPkg.AnalysisError{Message: "全身が写っている写真を送ってください。"}}
	svc := newTestService(store, line, analyzer)
	ctx := context.Background()

	if err := svc.HandleImageMessage(ctx, "U1", "rt1", "m1"); err != nil {
		t.Fatal(err)
	}
	if err := svc.HandleImageMessage(ctx, "U1", "rt2", "m2"); err != nil {
		t.Fatal(err)
	}
	svc.background.Wait()

	pushes := line.allPushes()
	if len(pushes) != 1 || pushes[0] != "全身が写っている写真を送ってください。" {
		t.Errorf("pushes = %v, want the analyzer's own guidance", pushes)
	}
	// The pair was consumed, a retry starts over.
	if _, ok := store.sessions["U1"]; ok {
		t.Error("failed analysis must not leave the pair behind")
	}
}

func TestAnalyzerOutagePushesApology(t *testing.T) {
	store := newStubStore()
	line := &stubLine{image: jpegBytes(t, color.RGBA{R: 255, A: 255})}
	analyzer := &stubAnalyzer{err: analyzerPkg.ErrUnavailable}
	svc := newTestService(store, line, analyzer)
	ctx := context.Background()

	if err := svc.HandleImageMessage(ctx, "U1", "rt1", "m1"); err != nil {
		t.Fatal(err)
	}
	if err := svc.HandleImageMessage(ctx, "U1", "rt2", "m2"); err != nil {
		t.Fatal(err)
	}
	svc.background.Wait()

	pushes := line.allPushes()
	if len(pushes) != 1 || pushes[0] != msgAnalyzerDown {
		t.Errorf("pushes = %v, want the outage apology", pushes)
	}
}

func TestStaleSessionStartsFresh(t *testing.T) {
	earlyImg := jpegBytes(t, color.RGBA{R: 255, A: 255})
	lateImg := jpegBytes(t, color.RGBA{B: 255, A: 255})

	store := newStubStore()
	line := &stubLine{image: earlyImg}
	svc := newTestService(store, line, &stubAnalyzer{})

	current := time.Now()
	svc.now = func() time.Time { return current }

	ctx := context.Background()
	if err := svc.HandleImageMessage(ctx, "U1", "rt1", "m1"); err != nil {
		t.Fatal(err)
	}
	if session := store.sessions["U1"]; session.State() != entity.SessionHasFront {
		t.Fatal("first photo should land in the front slot")
	}

	// Past the inactivity window the pending front is dropped, so this
	// photo becomes a new front rather than completing a stale pair.
	current = current.Add(webhookRepository.DefaultSessionTTL + time.Minute)
	line.image = lateImg
	if err := svc.HandleImageMessage(ctx, "U1", "rt2", "m2"); err != nil {
		t.Fatal(err)
	}

	session := store.sessions["U1"]
	if session.State() != entity.SessionHasFront {
		t.Errorf("state = %v, want HAS_FRONT (fresh session)", session.State())
	}
	if !bytes.Equal(session.Front, lateImg) {
		t.Error("Front should hold the late photo")
	}
}

func TestDuplicateDeliveryAfterCompletion(t *testing.T) {
	store := newStubStore()
	line := &stubLine{image: jpegBytes(t, color.RGBA{R: 255, A: 255})}
	analyzer := &stubAnalyzer{result: okResult()}
	svc := newTestService(store, line, analyzer)
	ctx := context.Background()

	if err := svc.HandleImageMessage(ctx, "U1", "rt1", "m1"); err != nil {
		t.Fatal(err)
	}
	if err := svc.HandleImageMessage(ctx, "U1", "rt2", "m2"); err != nil {
		t.Fatal(err)
	}
	svc.background.Wait()

	// A redelivered image after the pair was consumed opens a new
	// session instead of re-triggering the finished analysis.
	if err := svc.HandleImageMessage(ctx, "U1", "rt2", "m2"); err != nil {
		t.Fatal(err)
	}
	svc.background.Wait()

	if analyzer.callCount() != 1 {
		t.Errorf("analyzer called %d times, want exactly 1", analyzer.callCount())
	}
	if session := store.sessions["U1"]; session.State() != entity.SessionHasFront {
		t.Errorf("redelivered image should start a fresh front slot")
	}
}

func TestStorePutFailureApologizes(t *testing.T) {
	store := newStubStore()
	store.failPut = errors.New("redis down")
	line := &stubLine{image: jpegBytes(t, color.RGBA{R: 255, A: 255})}
	svc := newTestService(store, line, &stubAnalyzer{})

	if err := svc.HandleImageMessage(context.Background(), "U1", "rt", "m1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line.lastReply() != msgAnalyzerDown {
		t.Errorf("reply = %q, want the failure apology", line.lastReply())
	}
}
