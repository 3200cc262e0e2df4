package model_test

import (
	"errors"
	"testing"

	"github.com/okian/restitution/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMeasurement(t *testing.T) {
	Convey("Given a distance read in millimetres", t, func() {
		m := model.NewMeasurementMM(15, model.Steel, 331.9)

		Convey("Then it should be stored in metres", func() {
			So(m.DistanceMeters, ShouldAlmostEqual, 0.3319, 1e-12)
			So(m.AngleDegrees, ShouldEqual, 15)
			So(m.Material, ShouldEqual, model.Steel)
		})
	})

	Convey("Given solved results", t, func() {
		m := model.NewMeasurementMM(10, model.Glass, 305.3)

		Convey("Then only coefficients inside (0,1) are physical", func() {
			So(model.Result{Measurement: m, Coefficient: 0.77}.Physical(), ShouldBeTrue)
			So(model.Result{Measurement: m, Coefficient: 0}.Physical(), ShouldBeFalse)
			So(model.Result{Measurement: m, Coefficient: 1}.Physical(), ShouldBeFalse)
			So(model.Result{Measurement: m, Coefficient: -0.2}.Physical(), ShouldBeFalse)
		})
	})
}

func TestMaterial(t *testing.T) {
	Convey("Given material names", t, func() {
		Convey("When parsing known names in any case", func() {
			glass, err := model.ParseMaterial(" GLASS ")
			So(err, ShouldBeNil)
			So(glass, ShouldEqual, model.Glass)

			steel, err := model.ParseMaterial("steel")
			So(err, ShouldBeNil)
			So(steel, ShouldEqual, model.Steel)
		})

		Convey("When parsing an unknown name", func() {
			_, err := model.ParseMaterial("rubber")
			So(errors.Is(err, model.ErrUnknownMaterial), ShouldBeTrue)
		})

		Convey("When formatting", func() {
			So(model.Glass.String(), ShouldEqual, "Glass")
			So(model.Steel.String(), ShouldEqual, "Steel")
			So(model.Material(9).String(), ShouldEqual, "Material(9)")
			So(model.Material(9).Valid(), ShouldBeFalse)
		})

		Convey("When round-tripping through text", func() {
			text, err := model.Steel.MarshalText()
			So(err, ShouldBeNil)

			var m model.Material
			So(m.UnmarshalText(text), ShouldBeNil)
			So(m, ShouldEqual, model.Steel)

			_, err = model.Material(0).MarshalText()
			So(err, ShouldNotBeNil)
		})
	})
}
