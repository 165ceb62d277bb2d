package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"geoclock.com/geoclock/model"
	"geoclock.com/geoclock/utils"
	"gorm.io/datatypes"
)

// Workday anchors in minutes since midnight, business timezone.
const (
	WorkdayStartMinutes = 8 * 60  // 08:00
	WorkdayEndMinutes   = 17 * 60 // 17:00
	OtTierMinutes       = 19 * 60 // 19:00
	OtAnchorMinutes     = 22 * 60 // 22:00

	FullDayHours = 9.0
)

// AbnormalReason is the closed set of data-quality and policy flags that
// withhold payroll on a session. Codes persist in the session row;
// Describe formats them at the presentation boundary.
type AbnormalReason string

const (
	MissingCheckIn  AbnormalReason = "missing-check-in"
	MissingCheckOut AbnormalReason = "missing-check-out"
	ShortDay        AbnormalReason = "short-day"
	LateCheckout    AbnormalReason = "late-checkout"
)

func (r AbnormalReason) Describe() string {
	switch r {
	case MissingCheckIn:
		return "Missing check-in"
	case MissingCheckOut:
		return "Missing check-out"
	case ShortDay:
		return fmt.Sprintf("Total hours below %.0f", FullDayHours)
	case LateCheckout:
		return "Checkout after 10pm"
	}
	return string(r)
}

// DescribeAbnormalReasons decodes the persisted reason codes into
// human-readable text.
func DescribeAbnormalReasons(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var codes []AbnormalReason
	if err := json.Unmarshal(raw, &codes); err != nil {
		return nil
	}
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = c.Describe()
	}
	return out
}

// ComputeSession reduces one (user, dateKey) group of non-deleted success
// events into the session record. Pure with respect to its inputs: the same
// events, config and rates always yield the same session fields.
func ComputeSession(user model.User, dateKey string, events []model.ScanEvent, cfg BufferConfig, sites map[uint]model.Site) model.WorkSession {
	// Stable order so reruns break scanTime ties identically.
	sorted := make([]model.ScanEvent, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].ScanTime.Equal(sorted[j].ScanTime) {
			return sorted[i].ScanTime.Before(sorted[j].ScanTime)
		}
		return sorted[i].ID < sorted[j].ID
	})

	checkIns := utils.Filter(sorted, func(e model.ScanEvent) bool { return e.ScanType == model.ScanTypeCheckIn })
	checkOuts := utils.Filter(sorted, func(e model.ScanEvent) bool { return e.ScanType == model.ScanTypeCheckOut })

	var firstIn, lastOut *model.ScanEvent
	if len(checkIns) > 0 {
		firstIn = &checkIns[0]
	}
	if len(checkOuts) > 0 {
		lastOut = &checkOuts[len(checkOuts)-1]
	}

	session := model.WorkSession{
		UserID:     user.ID,
		UserEmail:  user.Email,
		UserName:   user.Name,
		DateKey:    dateKey,
		NormalRate: user.NormalRate,
		OtRate:     user.OtRate,
		Status:     model.SessionStatusIncomplete,
	}

	if firstIn != nil {
		t := firstIn.ScanTime
		session.CheckInTime = &t
		if firstIn.SiteID != nil {
			session.SiteInID = firstIn.SiteID
			if site, ok := sites[*firstIn.SiteID]; ok {
				session.SiteInName = utils.Ptr(site.DisplayName)
			}
		}
	}
	if lastOut != nil {
		t := lastOut.ScanTime
		session.CheckOutTime = &t
		if lastOut.SiteID != nil {
			session.SiteOutID = lastOut.SiteID
			if site, ok := sites[*lastOut.SiteID]; ok {
				session.SiteOutName = utils.Ptr(site.DisplayName)
			}
		}
	}
	if firstIn != nil && lastOut != nil {
		session.Status = model.SessionStatusComplete
	}

	var totalHours *float64
	if firstIn != nil && lastOut != nil {
		raw := math.Max(0, lastOut.ScanTime.Sub(firstIn.ScanTime).Hours())
		raw += earlyCheckoutPadding(minutesOfDay(lastOut.ScanTime), cfg)
		totalHours = utils.Ptr(round2(raw))
	}
	session.TotalHours = totalHours

	if firstIn != nil {
		inMinutes := minutesOfDay(firstIn.ScanTime)
		threshold := WorkdayStartMinutes + cfg.LateMinutes
		if inMinutes > threshold {
			session.IsLate = true
			session.LateReason = utils.Ptr(fmt.Sprintf("Check-in after %s", formatMinutes(threshold)))
		}
	}

	reasons := abnormalReasons(firstIn, lastOut, totalHours, cfg)
	if len(reasons) > 0 {
		session.IsAbnormal = true
	}
	if encoded, err := json.Marshal(reasons); err == nil {
		session.AbnormalReasons = datatypes.JSON(encoded)
	}

	// Payroll is withheld pending manual review on any abnormal flag.
	if !session.IsAbnormal && totalHours != nil {
		normal := round2(math.Min(*totalHours, FullDayHours))
		ot := overtimeHours(*totalHours, lastOut, cfg)
		amount := round2(normal*user.NormalRate + ot*user.OtRate)
		session.NormalHours = &normal
		session.OtHours = &ot
		session.AmountRM = &amount
	}

	return session
}

// earlyCheckoutPadding treats a checkout shortly before the nominal 17:00
// end as a full day up to 17:00.
func earlyCheckoutPadding(checkoutMinutes int, cfg BufferConfig) float64 {
	window := WorkdayEndMinutes - cfg.EarlyCheckoutMinutes
	if checkoutMinutes >= window && checkoutMinutes <= WorkdayEndMinutes {
		return float64(WorkdayEndMinutes-checkoutMinutes) / 60.0
	}
	return 0
}

func abnormalReasons(firstIn, lastOut *model.ScanEvent, totalHours *float64, cfg BufferConfig) []AbnormalReason {
	var reasons []AbnormalReason
	if firstIn == nil {
		reasons = append(reasons, MissingCheckIn)
	}
	if lastOut == nil {
		reasons = append(reasons, MissingCheckOut)
	}
	if totalHours != nil && *totalHours < FullDayHours {
		reasons = append(reasons, ShortDay)
	}
	if lastOut != nil && minutesOfDay(lastOut.ScanTime) > OtAnchorMinutes+cfg.OtLateMinutes {
		reasons = append(reasons, LateCheckout)
	}
	return reasons
}

// EffectiveOtCheckout snaps a checkout inside the 22:00 window to exactly
// 22:00; outside the window the actual checkout minutes are used.
func EffectiveOtCheckout(checkoutMinutes int, cfg BufferConfig) int {
	if checkoutMinutes >= OtAnchorMinutes-cfg.OtEarlyMinutes &&
		checkoutMinutes <= OtAnchorMinutes+cfg.OtLateMinutes {
		return OtAnchorMinutes
	}
	return checkoutMinutes
}

func overtimeHours(totalHours float64, lastOut *model.ScanEvent, cfg BufferConfig) float64 {
	if totalHours < FullDayHours || lastOut == nil {
		return 0
	}
	effective := EffectiveOtCheckout(minutesOfDay(lastOut.ScanTime), cfg)
	switch {
	case effective >= OtAnchorMinutes:
		return 4
	case effective >= OtTierMinutes:
		return 2
	}
	return 0
}

// minutesOfDay converts t to minutes since midnight in the business timezone.
func minutesOfDay(t time.Time) int {
	local := t.In(utils.BusinessTZ)
	return local.Hour()*60 + local.Minute()
}

func formatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
