package domain

import (
	"fmt"

	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
)

var ErrUnknownChartType = fmt.Errorf("%w: unknown chart type", sharedDomain.ErrInvalidArgument)
