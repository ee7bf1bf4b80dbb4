package stripe

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/adyela/payments/internal/core/domain"
	"github.com/stripe/stripe-go/v81"
)

// wrapError turns any stripe-go failure into a domain.GatewayError, keeping
// the provider's error code and HTTP status when available.
func wrapError(op string, err error) error {
	gwErr := &domain.GatewayError{Op: op, Err: err}

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		gwErr.Code = string(stripeErr.Code)
		if gwErr.Code == "" {
			gwErr.Code = string(stripeErr.Type)
		}
		gwErr.StatusCode = stripeErr.HTTPStatusCode
		gwErr.Message = stripeErr.Msg
	}

	return gwErr
}

// leveledLogger routes stripe-go's internal logging through slog.
type leveledLogger struct {
	logger *slog.Logger
}

func (l *leveledLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...), "component", "stripe")
}

func (l *leveledLogger) Infof(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...), "component", "stripe")
}

func (l *leveledLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, v...), "component", "stripe")
}

func (l *leveledLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...), "component", "stripe")
}
