package schedules

import (
	hs "github.com/Galaxeaaa/HotSpot"
)

func init() {
	list := []interface{}{
		func() hs.Kernel { return Linear() },
		func() hs.Kernel { return Quintic() },
		func() hs.Kernel { return Step() },
		func() hs.Kernel { return None() },
	}

	if err := hs.RegisterAll(list); err != nil {
		panic(err)
	}
}
