package zone

import (
	"errors"
	"fmt"
	"slices"

	"github.com/buxx/rollgui2-sub000/pkg/api"
)

type Health int

const (
	HealthOk Health = iota
	HealthMiddle
	HealthBad
	HealthCritical
)

func parseHealth(item api.ResumeItem) (Health, error) {
	if item.ValueStr == nil {
		return 0, errors.New("no value")
	}
	switch *item.ValueStr {
	case "Ok":
		return HealthOk, nil
	case "Moyen":
		return HealthMiddle, nil
	case "Mauvais":
		return HealthBad, nil
	case "Critique":
		return HealthCritical, nil
	}
	return 0, fmt.Errorf("unknown value %q", *item.ValueStr)
}

// Availability - ответ на "A boire" / "A manger".
type Availability int

const (
	AvailableYes Availability = iota
	AvailableLow
	AvailableNo
)

func parseAvailability(item api.ResumeItem) (Availability, error) {
	if item.ValueStr == nil {
		return 0, errors.New("no value")
	}
	switch *item.ValueStr {
	case "Oui":
		return AvailableYes, nil
	case "Faible":
		return AvailableLow, nil
	case "Non":
		return AvailableNo, nil
	}
	return 0, fmt.Errorf("unknown value %q", *item.ValueStr)
}

type BarColor int

const (
	BarGreen BarColor = iota + 1
	BarYellow
	BarRed
)

// ProgressBar - шкала 0..100 (голод, жажда, усталость).
type ProgressBar struct {
	Percent  int32
	Color    BarColor
	Inverted bool
}

func parseProgressBar(item api.ResumeItem) (ProgressBar, error) {
	if item.ValueFloat == nil {
		return ProgressBar{}, errors.New("no value")
	}
	value := *item.ValueFloat
	if value < 0 || value > 100 {
		return ProgressBar{}, fmt.Errorf("value not between 0 and 100: '%v'", value)
	}
	bar := ProgressBar{
		Percent:  int32(value),
		Inverted: slices.Contains(item.Classes, "inverted_percent"),
	}
	// Последний подходящий класс побеждает.
	for _, class := range item.Classes {
		switch class {
		case "green":
			bar.Color = BarGreen
		case "yellow":
			bar.Color = BarYellow
		case "red":
			bar.Color = BarRed
		}
	}
	if bar.Color == 0 {
		return ProgressBar{}, errors.New("no color")
	}
	return bar, nil
}

// ResumeIcon - иконка сводки, которая мигает при изменении значения.
type ResumeIcon string

const (
	IconClock     ResumeIcon = "Clock"
	IconHeart     ResumeIcon = "Heart"
	IconFood      ResumeIcon = "Food"
	IconWater     ResumeIcon = "Water"
	IconSleep     ResumeIcon = "Sleep"
	IconHaveWater ResumeIcon = "HaveWater"
	IconHaveFood  ResumeIcon = "HaveFood"
	IconFollow    ResumeIcon = "Follow"
	IconFollower  ResumeIcon = "Follower"
	IconShield    ResumeIcon = "Shield"
)

// Resume - разобранная сводка персонажа (NEW_RESUME_TEXT).
type Resume struct {
	Health       Health
	ActionPoints float64
	Hungry       ProgressBar
	Thirsty      ProgressBar
	Tiredness    ProgressBar
	CanDrink     Availability
	CanEat       Availability
	Follow       int32
	Follower     int32
	Fighters     int32
	Messages     int32
}

// ParseResume собирает сводку. Все строки обязательны, неизвестные игнорируются.
func ParseResume(items []api.ResumeItem) (*Resume, error) {
	var r Resume
	seen := make(map[string]bool, 11)

	count := func(item api.ResumeItem, dst *int32) error {
		if item.ValueFloat == nil {
			return errors.New("no value")
		}
		*dst = int32(*item.ValueFloat)
		return nil
	}

	for _, item := range items {
		var err error
		switch item.Name {
		case "PV":
			r.Health, err = parseHealth(item)
		case "PA":
			if item.ValueFloat == nil {
				err = errors.New("no value")
			} else {
				r.ActionPoints = *item.ValueFloat
			}
		case "Faim":
			r.Hungry, err = parseProgressBar(item)
		case "Soif":
			r.Thirsty, err = parseProgressBar(item)
		case "Fatigue":
			r.Tiredness, err = parseProgressBar(item)
		case "A boire":
			r.CanDrink, err = parseAvailability(item)
		case "A manger":
			r.CanEat, err = parseAvailability(item)
		case "Suivis":
			err = count(item, &r.Follow)
		case "Suiveurs":
			err = count(item, &r.Follower)
		case "Combattants":
			err = count(item, &r.Fighters)
		case "Messages":
			err = count(item, &r.Messages)
		default:
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resume %q: %w", item.Name, err)
		}
		seen[item.Name] = true
	}

	for _, name := range []string{"PV", "PA", "Faim", "Soif", "Fatigue", "A boire", "A manger",
		"Suivis", "Suiveurs", "Combattants", "Messages"} {
		if !seen[name] {
			return nil, fmt.Errorf("resume %q: missing", name)
		}
	}
	return &r, nil
}

// ChangedIcons - иконки значений, изменившихся между r и after.
func (r *Resume) ChangedIcons(after *Resume) []ResumeIcon {
	var icons []ResumeIcon
	if r.ActionPoints != after.ActionPoints {
		icons = append(icons, IconClock)
	}
	if r.Health != after.Health {
		icons = append(icons, IconHeart)
	}
	if r.Hungry != after.Hungry {
		icons = append(icons, IconFood)
	}
	if r.Thirsty != after.Thirsty {
		icons = append(icons, IconWater)
	}
	if r.Tiredness != after.Tiredness {
		icons = append(icons, IconSleep)
	}
	if r.CanDrink != after.CanDrink {
		icons = append(icons, IconHaveWater)
	}
	if r.CanEat != after.CanEat {
		icons = append(icons, IconHaveFood)
	}
	if r.Follow != after.Follow {
		icons = append(icons, IconFollow)
	}
	if r.Follower != after.Follower {
		icons = append(icons, IconFollower)
	}
	if r.Fighters != after.Fighters {
		icons = append(icons, IconShield)
	}
	return icons
}
