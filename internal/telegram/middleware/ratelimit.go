package middleware

import (
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// userLimit tracks rate limit state for a single user
type userLimit struct {
	tokens     float64
	lastRefill time.Time
	warnedAt   time.Time
	mu         sync.Mutex
}

// RateLimiterMiddleware implements token bucket rate limiting per user
type RateLimiterMiddleware struct {
	limits          map[int64]*userLimit
	mu              sync.RWMutex
	maxTokens       float64
	refillRate      float64 // tokens per second
	warningInterval time.Duration
	logger          *zap.Logger
	api             *tgbotapi.BotAPI
}

// NewRateLimiterMiddleware creates a new rate limiter middleware
func NewRateLimiterMiddleware(
	requestsPerMinute int,
	burstSize int,
	logger *zap.Logger,
	api *tgbotapi.BotAPI,
) *RateLimiterMiddleware {
	maxTokens := float64(requestsPerMinute)
	if burstSize > 0 && float64(burstSize) < maxTokens {
		maxTokens = float64(burstSize)
	}

	rl := &RateLimiterMiddleware{
		limits:          make(map[int64]*userLimit),
		maxTokens:       maxTokens,
		refillRate:      float64(requestsPerMinute) / 60.0,
		warningInterval: 30 * time.Second,
		logger:          logger,
		api:             api,
	}

	go rl.cleanupInactiveUsers()

	return rl
}

// Handle processes the update through rate limiting
func (rl *RateLimiterMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	if update.Message == nil || update.Message.From == nil {
		next(update)
		return
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	if !rl.allowRequest(userID, chatID) {
		rl.logger.Warn("rate limit exceeded",
			zap.Int64("user_id", userID),
			zap.Int64("chat_id", chatID),
		)
		return
	}

	next(update)
}

// allowRequest checks if request is allowed under rate limit
func (rl *RateLimiterMiddleware) allowRequest(userID, chatID int64) bool {
	rl.mu.Lock()
	limit, exists := rl.limits[userID]
	if !exists {
		limit = &userLimit{
			tokens:     rl.maxTokens,
			lastRefill: time.Now(),
		}
		rl.limits[userID] = limit
	}
	rl.mu.Unlock()

	limit.mu.Lock()
	defer limit.mu.Unlock()

	now := time.Now()

	elapsed := now.Sub(limit.lastRefill).Seconds()
	limit.tokens += elapsed * rl.refillRate
	if limit.tokens > rl.maxTokens {
		limit.tokens = rl.maxTokens
	}
	limit.lastRefill = now

	if limit.tokens >= 1.0 {
		limit.tokens -= 1.0
		return true
	}

	// Warn the user at most once per interval so the bot does not spam
	// a chat that is already over its limit.
	if now.Sub(limit.warnedAt) > rl.warningInterval {
		limit.warnedAt = now
		rl.sendRateLimitWarning(chatID)
	}

	return false
}

// sendRateLimitWarning sends a warning message to the user
func (rl *RateLimiterMiddleware) sendRateLimitWarning(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "You are sending messages too quickly. Please wait a moment before trying again.")
	if _, err := rl.api.Send(msg); err != nil {
		rl.logger.Error("failed to send rate limit warning",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

// cleanupInactiveUsers removes users that haven't sent requests in 1 hour
func (rl *RateLimiterMiddleware) cleanupInactiveUsers() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		inactiveThreshold := 1 * time.Hour

		for userID, limit := range rl.limits {
			limit.mu.Lock()
			if now.Sub(limit.lastRefill) > inactiveThreshold {
				delete(rl.limits, userID)
			}
			limit.mu.Unlock()
		}
		rl.mu.Unlock()
	}
}
