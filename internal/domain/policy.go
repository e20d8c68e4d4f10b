package domain

import (
	"fmt"
	"strings"
)

// Surface says how a failure reaches the admin.
type Surface string

const (
	// SurfaceSilent logs the failure and degrades to an empty state.
	SurfaceSilent Surface = "silent"
	// SurfaceAlert returns the failure to the caller, which shows it as an alert.
	SurfaceAlert Surface = "alert"
	// SurfaceBanner keeps the message in the view as an inline banner.
	SurfaceBanner Surface = "banner"
)

// ParseSurface accepts silent, alert or banner.
func ParseSurface(s string) (Surface, error) {
	switch v := Surface(strings.ToLower(strings.TrimSpace(s))); v {
	case SurfaceSilent, SurfaceAlert, SurfaceBanner:
		return v, nil
	default:
		return "", fmt.Errorf("unknown error surface %q", s)
	}
}

// ErrorPolicy decides per page how failures surface. Loads answered with 401
// always degrade silently to an empty collection.
type ErrorPolicy struct {
	// OnAuthError applies to mutations answered with 401.
	OnAuthError Surface `json:"onAuthError"`
	// OnLoadError applies to failed loads other than 401.
	OnLoadError Surface `json:"onLoadError"`
	// OnMutationError applies to failed saves and deletes other than 401.
	OnMutationError Surface `json:"onMutationError"`
}

// ListPolicy is what list pages do: quiet loads, alerts on mutations.
func ListPolicy() ErrorPolicy {
	return ErrorPolicy{
		OnAuthError:     SurfaceAlert,
		OnLoadError:     SurfaceSilent,
		OnMutationError: SurfaceAlert,
	}
}

// DetailPolicy is what detail pages do: load failures show a banner.
func DetailPolicy() ErrorPolicy {
	return ErrorPolicy{
		OnAuthError:     SurfaceAlert,
		OnLoadError:     SurfaceBanner,
		OnMutationError: SurfaceAlert,
	}
}

func (p ErrorPolicy) withDefaults() ErrorPolicy {
	d := ListPolicy()
	if p.OnAuthError == "" {
		p.OnAuthError = d.OnAuthError
	}
	if p.OnLoadError == "" {
		p.OnLoadError = d.OnLoadError
	}
	if p.OnMutationError == "" {
		p.OnMutationError = d.OnMutationError
	}
	return p
}
