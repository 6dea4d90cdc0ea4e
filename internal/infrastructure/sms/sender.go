// Package sms implementa el envío de OTP: log (desarrollo), webhook HTTP o noop.
package sms

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/telco-selfcare-api/internal/application/auth"
	"github.com/jhoicas/telco-selfcare-api/pkg/config"
	"github.com/jhoicas/telco-selfcare-api/pkg/logger"
)

// Proveedores soportados en SMS_PROVIDER.
const (
	ProviderLog     = "log"
	ProviderWebhook = "webhook"
	ProviderNoop    = "noop"
)

var (
	dispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "selfcare",
			Name:      "otp_dispatch_total",
			Help:      "Total OTP dispatch attempts by provider and result.",
		},
		[]string{"provider", "result"},
	)

	dispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "selfcare",
			Name:      "otp_dispatch_duration_seconds",
			Help:      "Duration of OTP dispatch calls.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provider"},
	)
)

// otpMessage texto enviado al abonado.
func otpMessage(code string, ttl time.Duration) string {
	return fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(ttl.Minutes()))
}

// New construye el OTPSender configurado.
func New(cfg config.SMSConfig, otpTTL time.Duration, l *logger.Logger) (auth.OTPSender, error) {
	if l == nil {
		l = logger.Nop()
	}
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderLog
	}
	var s auth.OTPSender
	switch provider {
	case ProviderLog:
		s = NewLogSender(l, otpTTL)
	case ProviderWebhook:
		if cfg.WebhookURL == "" {
			return nil, fmt.Errorf("sms: SMS_WEBHOOK_URL vacío")
		}
		s = NewWebhookSender(cfg.WebhookURL, cfg.WebhookToken, cfg.SenderID, otpTTL, nil)
	case ProviderNoop:
		s = NoopSender{}
	default:
		return nil, fmt.Errorf("sms: proveedor desconocido %q", cfg.Provider)
	}
	return &instrumented{next: s, provider: provider}, nil
}

// instrumented registra métricas alrededor de cualquier proveedor.
type instrumented struct {
	next     auth.OTPSender
	provider string
}

func (i *instrumented) SendOTP(ctx context.Context, recipient, code string) error {
	timer := prometheus.NewTimer(dispatchDuration.WithLabelValues(i.provider))
	defer timer.ObserveDuration()

	err := i.next.SendOTP(ctx, recipient, code)
	result := "ok"
	if err != nil {
		result = "error"
	}
	dispatchTotal.WithLabelValues(i.provider, result).Inc()
	return err
}

// NoopSender descarta los códigos.
type NoopSender struct{}

// SendOTP no hace nada.
func (NoopSender) SendOTP(context.Context, string, string) error { return nil }

// LogSender escribe el código en el log. Solo para desarrollo.
type LogSender struct {
	log *logger.Logger
	ttl time.Duration
}

// NewLogSender construye el proveedor de desarrollo.
func NewLogSender(l *logger.Logger, ttl time.Duration) *LogSender {
	return &LogSender{log: l.Component("sms"), ttl: ttl}
}

// SendOTP registra destinatario y código a nivel info.
func (s *LogSender) SendOTP(_ context.Context, recipient, code string) error {
	s.log.Info().
		Str("recipient", recipient).
		Str("otp", code).
		Str("text", otpMessage(code, s.ttl)).
		Msg("OTP (proveedor log)")
	return nil
}
