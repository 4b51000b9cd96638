// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package listing

import (
	"time"

	"github.com/uniplaces/carbon"

	"github.com/cenxiv/translation-engine/pkg/types"
)

// chineseWeekdays is indexed by time.Weekday, Sunday first.
var chineseWeekdays = [...]string{"星期日", "星期一", "星期二", "星期三", "星期四", "星期五", "星期六"}

// DayKey renders an announcement day in the canonical form used for
// cache partitioning and display URLs.
func DayKey(day time.Time) string {
	return carbon.NewCarbon(day.UTC()).DateString()
}

// DayLabel renders an announcement day heading for the requested
// language, matching the upstream site's conventions.
func DayLabel(day time.Time, language string) string {
	if language == types.LanguageChinese {
		return day.Format("2006年01月02日") + "， " + chineseWeekdays[day.Weekday()]
	}
	return day.Format("Mon, 2 Jan 2006")
}
