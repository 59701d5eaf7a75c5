// Package version reports the build identity of this VM: its own release
// string plus the bytecode image format it accepts, so a host embedding the
// VM (or its CLI) can print one line that answers both "what build is this"
// and "what .toyc files will it load".
package version

import (
	"fmt"

	"github.com/GruelingPine185/Toy/image"
)

const (
	VERSION = "0.1.0"
	COMMIT  = "dev"
	BUILT   = ""
)

// ImageFormat is the bytecode image version this build's vm.RunInterpreter
// accepts. Kept here, rather than only in the vm package, so CLI tooling can
// report it without importing the interpreter itself.
var ImageFormat = image.Version{Major: 0, Minor: 1, Patch: 0}

func Version() string {
	return fmt.Sprintf("%s (%s) image-format=%d.%d.%d", VERSION, BUILT, ImageFormat.Major, ImageFormat.Minor, ImageFormat.Patch)
}
