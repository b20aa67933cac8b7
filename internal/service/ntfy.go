package service

import (
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ntfyBaseURL はntfy.shのベースURLです
const ntfyBaseURL = "https://ntfy.sh/"

// NtfyService はntfy.sh通知操作のインターフェースを定義します
type NtfyService interface {
	// NotifyError はエラー通知を送信します
	NotifyError(title, message string)
}

// ntfyServiceImpl はNtfyServiceの実装です
type ntfyServiceImpl struct {
	topicURL   string
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// NewNtfyService は新しいNtfyServiceを生成します
// topic が空の場合は nil を返します（オプショナル機能）
func NewNtfyService(topic string, logger *zap.Logger) NtfyService {
	log := logger.Named("NtfyService").Sugar()
	if topic == "" {
		log.Infow("NTFY_TOPIC is not set, generator failures will not be notified")
		return nil
	}

	topicURL := ntfyBaseURL + topic
	log.Infow("Initialized", "topic_url", topicURL)
	return &ntfyServiceImpl{
		topicURL: topicURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: log,
	}
}

// NotifyError はエラー通知を送信します（fire-and-forget）
func (s *ntfyServiceImpl) NotifyError(title, message string) {
	go s.send(title, message, "high", "x")
}

// send はntfy.shへHTTP POSTで通知を送信します
func (s *ntfyServiceImpl) send(title, message, priority, tags string) {
	s.logger.Infow("Sending notification", "title", title, "priority", priority)

	req, err := http.NewRequest(http.MethodPost, s.topicURL, strings.NewReader(message))
	if err != nil {
		s.logger.Warnw("Failed to create request", "error", err)
		return
	}

	req.Header.Set("Title", title)
	req.Header.Set("Priority", priority)
	req.Header.Set("Tags", tags)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warnw("Failed to send ntfy notification", "error", err)
		return
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warnw("Unexpected response status", "status", resp.StatusCode)
		return
	}

	s.logger.Infow("ntfy notification sent", "title", title)
}
