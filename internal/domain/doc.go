// Package domain models NASA FIRMS wildfire detections and the filter state an
// analyst uses to narrow them.
//
// # Data Source
//
// Detections come from the FIRMS active fire archive (MODIS/VIIRS), exported
// per country as a table with one row per detected hotspot. The dataset is
// normalized once at load time (see the dataset adapter) and is immutable for
// the life of the process. This package never parses raw archive files.
//
// # FIRMS Conventions
//
// Fire origin ("type" column in the archive):
//
//	0  presumed vegetation fire
//	1  active volcano
//	2  other static land source
//	3  offshore
//
// Rows with a missing type are coalesced to the modal type of the whole table
// before they reach this package, so Origin is always one of the four codes.
//
// Fire time ("daynight" column):
//
//	"D" daytime overpass, "N" nighttime overpass.
//
// Brightness:
//
//	Channel 21/22 brightness temperature in kelvin. Values are used as-is; no
//	outlier handling happens here.
//
// Calendar fields:
//
//	Month (1–12) and Year are derived from the acquisition date. Month names
//	("Feb", "February") are accepted on input and mapped to their number.
//
// # Filtering
//
// A [FilterState] holds one selection per [Dimension]. [BuildPredicate] ANDs
// the origin and time selections and, only when both month and year are
// selected, the month and year selections. Supplying just one of month or year
// has no filtering effect.
package domain
