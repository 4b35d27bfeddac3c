package losses

import (
	hs "github.com/Galaxeaaa/HotSpot"
)

func init() {
	list := []interface{}{
		func() hs.Term { return Boundary() },
		func() hs.Term { return Inter() },
		func() hs.Term { return EikonalAbs() },
		func() hs.Term { return EikonalSquared() },
		func() hs.Term { return DirL1() },
		func() hs.Term { return DirL2() },
		func() hs.Term { return FullL1() },
		func() hs.Term { return FullL2() },
		func() hs.Term { return Heat() },
		func() hs.Term { return Phase(0.01) },
		func() hs.Term { return NormalCos() },
		func() hs.Term { return NormalDiff() },
		func() hs.Term { return SAL() },
		func() hs.Term { return LatentReg() },
	}

	if err := hs.RegisterAll(list); err != nil {
		panic(err)
	}
}
