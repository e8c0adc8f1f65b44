package laptime_test

import (
	"testing"
	"time"

	"github.com/okian/podium/internal/domain/laptime"
	"github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	convey.Convey("Given well-formed M:S:C times", t, func() {
		convey.Convey("Then the third part is scaled by 10ms", func() {
			convey.So(laptime.Parse("1:02:34"), convey.ShouldEqual, laptime.Duration(62340))
			convey.So(laptime.Parse("0:00:00"), convey.ShouldEqual, laptime.Duration(0))
			convey.So(laptime.Parse("2:00:00"), convey.ShouldEqual, laptime.Duration(120000))
			convey.So(laptime.Parse("0:25:50"), convey.ShouldEqual, laptime.Duration(25500))
		})

		convey.Convey("And component whitespace is tolerated", func() {
			convey.So(laptime.Parse(" 1 : 02 : 34 "), convey.ShouldEqual, laptime.Duration(62340))
		})

		convey.Convey("And components are not range-checked", func() {
			convey.So(laptime.Parse("0:75:150"), convey.ShouldEqual, laptime.Duration(75*1000+150*10))
		})
	})

	convey.Convey("Given malformed times", t, func() {
		convey.Convey("Then non-numeric parts become zero", func() {
			convey.So(laptime.Parse("abc:def:ghi"), convey.ShouldEqual, laptime.Duration(0))
			convey.So(laptime.Parse("1:xx:50"), convey.ShouldEqual, laptime.Duration(60000+500))
			convey.So(laptime.Parse("::"), convey.ShouldEqual, laptime.Duration(0))
		})

		convey.Convey("And a leading digit run is still read", func() {
			convey.So(laptime.Parse("1min:02s:34"), convey.ShouldEqual, laptime.Duration(62340))
		})

		convey.Convey("And signed parts become zero", func() {
			convey.So(laptime.Parse("-1:02:34"), convey.ShouldEqual, laptime.Duration(2340))
		})

		convey.Convey("And a wrong part count makes the whole time zero", func() {
			convey.So(laptime.Parse("1:2"), convey.ShouldEqual, laptime.Duration(0))
			convey.So(laptime.Parse("1:02:34:56"), convey.ShouldEqual, laptime.Duration(0))
			convey.So(laptime.Parse(""), convey.ShouldEqual, laptime.Duration(0))
			convey.So(laptime.Parse("62.34"), convey.ShouldEqual, laptime.Duration(0))
		})

		convey.Convey("And parts wider than 32 bits keep their value", func() {
			convey.So(laptime.Parse("99999999999:0:0"), convey.ShouldEqual, laptime.Duration(99999999999*60000))
			convey.So(laptime.Parse("99999999999:0:0"), convey.ShouldBeGreaterThan, laptime.Parse("999:59:99"))
		})

		convey.Convey("And oversized parts are clamped without overflowing", func() {
			huge := laptime.Parse("99999999999999999999:99999999999999999999:99999999999999999999")
			convey.So(huge, convey.ShouldBeGreaterThan, laptime.Parse("99999999999:0:0"))
			convey.So(huge, convey.ShouldBeLessThan, laptime.Unparsed)
			d, ok := laptime.ParseStrict("99999999999999999999:00:01")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(d, convey.ShouldBeLessThan, laptime.Unparsed)
		})
	})
}

func TestParseStrict(t *testing.T) {
	convey.Convey("Given the strict parser", t, func() {
		convey.Convey("When the time is well formed", func() {
			d, ok := laptime.ParseStrict("1:02:34")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(d, convey.ShouldEqual, laptime.Duration(62340))
			convey.So(laptime.Valid("0:00:00"), convey.ShouldBeTrue)
		})

		convey.Convey("When the time is malformed", func() {
			for _, s := range []string{"", "1:2", "abc:def:ghi", "1min:02:34", "-1:02:34", "1:02:34:00"} {
				d, ok := laptime.ParseStrict(s)
				convey.So(ok, convey.ShouldBeFalse)
				convey.So(d, convey.ShouldEqual, laptime.Unparsed)
			}
		})

		convey.Convey("Then Unparsed orders after any real time", func() {
			d, _ := laptime.ParseStrict("999:59:99")
			convey.So(laptime.Unparsed, convey.ShouldBeGreaterThan, d)
		})
	})
}

func TestDurationFormatting(t *testing.T) {
	convey.Convey("Given durations", t, func() {
		convey.So(laptime.Duration(62340).String(), convey.ShouldEqual, "1:02:34")
		convey.So(laptime.Duration(0).String(), convey.ShouldEqual, "0:00:00")
		convey.So(laptime.Duration(25505).String(), convey.ShouldEqual, "0:25:50")
		convey.So(laptime.Unparsed.String(), convey.ShouldEqual, "unparsed")

		convey.So(laptime.Duration(62340).Std(), convey.ShouldEqual, 62340*time.Millisecond)
		convey.So(laptime.Unparsed.Std(), convey.ShouldEqual, time.Duration(0))
		convey.So(laptime.Duration(1500).Milliseconds(), convey.ShouldEqual, int64(1500))
	})
}
