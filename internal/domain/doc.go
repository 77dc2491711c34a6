// Package domain models Japan Meteorological Agency (JMA) AMeDAS surface
// observations and the policies that turn scraped tables into one canonical
// schema.
//
// # Data Source
//
// Observations come from the JMA "past weather data" pages under
// https://www.data.jma.go.jp/obd/stats/etrn/. A two-level selector
// (prefecture00.php, then prefecture.php?prec_no=NN) lists every station as a
// clickable <area> whose href carries prec_no and block_no. Station metadata
// (coordinates, observed elements) comes from the AMeDAS table JSON at
// https://www.jma.go.jp/bosai/amedas/const/amedastable.json.
//
// # Station Classes
//
// block_no is 4 digits for AMeDAS sites and 5 digits for the 47xxx
// observatories. The digit count selects the page family:
//
//	4 digits  →  view/{10min,hourly,daily}_a1.php
//	5 digits  →  view/{10min,hourly,daily}_s1.php
//
// The two families render different column sets for the same cadence; see
// [Resolve] for how both are reconciled into one schema.
//
// # Cell Conventions
//
// JMA annotates cells instead of leaving them blank:
//
//	"12.3 )"  quasi-normal value, usable  →  12.3
//	"12.3 ]"  insufficient samples        →  missing
//	"///"     element not observed        →  missing
//	"×"       observation failure         →  missing
//	"#"       suspect value               →  missing
//	"--"      no phenomenon / not counted →  missing
//
// Wind directions are 16-point compass labels in Japanese ("北北東"). They are
// converted to degrees clockwise from north. "静穏" (calm) is kept as a
// distinct [Calm] value and serialized as -888.8 so it never collapses into a
// missing reading.
//
// # Time Axis
//
// All timestamps are JST. A day of 10-minute data runs 00:10 through 00:00 of
// the next day (144 rows); a day of hourly data runs 01:00 through the next
// 00:00 (24 rows); a month of daily data has one row per calendar day.
package domain
