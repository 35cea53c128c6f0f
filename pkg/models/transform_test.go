package models

import (
	"testing"

	"github.com/taigrr/shenandoah/pkg/math3d"
)

func TestTransformZeroValueIsIdentity(t *testing.T) {
	var tr Transform

	if tr.Composite() != math3d.Identity() {
		t.Errorf("zero Transform composite = %v, want identity", tr.Composite())
	}
	if tr.Scale() != math3d.V3(1, 1, 1) {
		t.Errorf("zero Transform scale = %v, want (1,1,1)", tr.Scale())
	}
	if tr.Origin() != math3d.Zero3() || tr.Angles() != math3d.Zero3() {
		t.Errorf("zero Transform origin/angles = %v/%v, want zero", tr.Origin(), tr.Angles())
	}
	if tr != (Transform{}) {
		t.Error("getters modified a zero Transform")
	}
}

func TestTransformOrder(t *testing.T) {
	tests := []struct {
		name   string
		origin math3d.Vec3
		angles math3d.Vec3
		scale  math3d.Vec3
		in     math3d.Vec3
		want   math3d.Vec3
	}{
		{"translate only", math3d.V3(1, 2, 3), math3d.Zero3(), math3d.V3(1, 1, 1), math3d.V3(1, 1, 1), math3d.V3(2, 3, 4)},
		{"scale is not applied to translation", math3d.V3(1, 0, 0), math3d.Zero3(), math3d.V3(3, 3, 3), math3d.V3(1, 0, 0), math3d.V3(4, 0, 0)},
		{"rotate about own origin", math3d.V3(0, 0, 5), math3d.V3(0, 0, 90), math3d.V3(1, 1, 1), math3d.V3(1, 0, 0), math3d.V3(0, 1, 5)},
		{"rotate before scale", math3d.Zero3(), math3d.V3(0, 0, 90), math3d.V3(1, 2, 1), math3d.V3(1, 0, 0), math3d.V3(0, 2, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := NewTransformFrom(tc.origin, tc.angles, tc.scale)
			got := tr.Apply(math3d.V4FromV3(tc.in, 1)).Vec3()
			if got.Distance(tc.want) > 1e-9 {
				t.Errorf("Apply(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestTransformOffsets(t *testing.T) {
	tr := NewTransform()
	tr.OffsetOrigin(math3d.V3(1, 0, 0))
	tr.OffsetOrigin(math3d.V3(0, 1, 0))
	tr.OffsetAngles(math3d.V3(0, 0, 45))
	tr.OffsetAngles(math3d.V3(0, 0, 45))
	tr.OffsetScale(math3d.V3(1, 1, 1))

	if tr.Origin() != math3d.V3(1, 1, 0) {
		t.Errorf("Origin = %v, want (1,1,0)", tr.Origin())
	}
	if tr.Angles() != math3d.V3(0, 0, 90) {
		t.Errorf("Angles = %v, want (0,0,90)", tr.Angles())
	}
	if tr.Scale() != math3d.V3(2, 2, 2) {
		t.Errorf("Scale = %v, want (2,2,2)", tr.Scale())
	}

	got := tr.Apply(math3d.V4(1, 0, 0, 1)).Vec3()
	want := math3d.V3(1, 3, 0)
	if got.Distance(want) > 1e-9 {
		t.Errorf("Apply = %v, want %v", got, want)
	}
}
