package hotspot

import (
	"github.com/pkg/errors"
)

// The registries map TypeStrings to blank-value factories, so that kernels and
// terms can be constructed by name (from configuration) or reconstructed when
// loading. Subpackages fill them from their init() functions; importing
// "schedules" and "losses" is enough to have the full set available.

var (
	kernelTypes = make(map[string]func() Kernel)
	termTypes   = make(map[string]func() Term)
)

// RegisterKernel adds an annealing kernel factory under the given name.
// Duplicate names and factories returning nil are rejected.
func RegisterKernel(name string, f func() Kernel) error {
	if f == nil {
		return NilArgError{"Factory"}
	} else if f() == nil {
		return ErrRegisterNilReturn
	} else if _, ok := kernelTypes[name]; ok {
		return errors.Errorf("Kernel %q is already registered", name)
	}

	kernelTypes[name] = f
	return nil
}

// RegisterTerm adds a loss-term factory under the given name.
func RegisterTerm(name string, f func() Term) error {
	if f == nil {
		return NilArgError{"Factory"}
	} else if f() == nil {
		return ErrRegisterNilReturn
	} else if _, ok := termTypes[name]; ok {
		return errors.Errorf("Term %q is already registered", name)
	}

	termTypes[name] = f
	return nil
}

// RegisterAll registers a mixed list of kernel and term factories, stopping at
// the first failure. List entries that are neither return ErrRegisterWrongType.
func RegisterAll(list []interface{}) error {
	for i, v := range list {
		var err error

		switch f := v.(type) {
		case func() Kernel:
			err = RegisterKernel(f().TypeString(), f)
		case func() Term:
			err = RegisterTerm(f().TypeString(), f)
		default:
			err = ErrRegisterWrongType
		}

		if err != nil {
			return errors.Wrapf(err, "Failed to register list item %d", i)
		}
	}

	return nil
}

// NewKernel returns a blank kernel registered under name.
func NewKernel(name string) (Kernel, error) {
	f, ok := kernelTypes[name]
	if !ok {
		return nil, errors.Wrapf(ErrScheduleKernel, "No kernel %q", name)
	}

	return f(), nil
}

// NewTerm returns a blank term registered under name.
func NewTerm(name string) (Term, error) {
	f, ok := termTypes[name]
	if !ok {
		return nil, errors.Errorf("No term %q", name)
	}

	return f(), nil
}
