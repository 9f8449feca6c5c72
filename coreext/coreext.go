// Package coreext imports every core extension. Import it for side effects
// before creating a VM to give programs the full set of extension globals.
package coreext

import (
	// importing for side effects
	_ "github.com/zephyrtronium/protocore/coreext/assert"
	_ "github.com/zephyrtronium/protocore/coreext/console"
	_ "github.com/zephyrtronium/protocore/coreext/hooks"
)
