package usecase

import (
	"errors"

	"github.com/wekeepgrowing/trendloop-checkout/internal/domain/provider"
	apperrors "github.com/wekeepgrowing/trendloop-checkout/pkg/errors"
)

// providerFailure wraps a provider error as an AppError whose message is the
// provider's own human readable message.
func providerFailure(err error) error {
	message := err.Error()
	var providerErr *provider.ProviderError
	if errors.As(err, &providerErr) && providerErr.Message != "" {
		message = providerErr.Message
	}
	return apperrors.NewAppError(apperrors.ErrProvider, message, err)
}
