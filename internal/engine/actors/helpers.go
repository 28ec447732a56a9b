package actors

import (
	"errors"
	"fmt"

	"memehub/internal/utils"
)

// toAppError makes sure every error reply crosses the actor boundary as an
// *utils.AppError, which is what callers type-switch on.
func toAppError(err error) *utils.AppError {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return utils.NewAppError(utils.ErrInternal, "internal error", err)
}

func typeName(v interface{}) string {
	return fmt.Sprintf("%T", v)
}
