package domain

import "time"

// BlockMinutes вычисляет полную длительность блока брони:
// базовая услуга + допуслуги + буфер, с округлением вверх до шага сетки.
// Если сырая сумма <= 0, возвращает 0 (защитный случай, при валидном
// каталоге не встречается).
func BlockMinutes(baseMin, addonMin, bufferMin int) int {
	raw := baseMin + addonMin + bufferMin
	if raw <= 0 {
		return 0
	}
	steps := (raw + SlotStepMinutes - 1) / SlotStepMinutes
	return steps * SlotStepMinutes
}

// ServiceDurationOrDefault возвращает длительность услуги, подменяя
// некорректные значения дефолтом
func ServiceDurationOrDefault(durationMin int) int {
	if durationMin > 0 {
		return durationMin
	}
	return DefaultServiceDurationMin
}

// End возвращает конец интервала, начавшегося в start и длящегося durationMin минут
func End(start time.Time, durationMin int) time.Time {
	return start.Add(time.Duration(durationMin) * time.Minute)
}

// Overlaps проверяет пересечение двух полуоткрытых интервалов [aStart, aEnd) и
// [bStart, bEnd). Касание границ пересечением не считается.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Interval занятый интервал времени [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps проверяет пересечение с другим интервалом
func (i Interval) Overlaps(other Interval) bool {
	return Overlaps(i.Start, i.End, other.Start, other.End)
}
