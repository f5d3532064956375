package rollover

import "github.com/hearthside/choreboard/internal/model"

type seedTemplate struct {
	category   string
	title      string
	required   bool
	rewardText string
	sortOrder  int
}

var weekdaySeed = []seedTemplate{
	{model.CategorySchoolwork, "Math Homework", true, "", 1},
	{model.CategorySchoolwork, "Science Review", true, "", 2},
	{model.CategorySchoolwork, "Reading", true, "", 3},
	{model.CategoryHygiene, "Brush Teeth", true, "", 1},
	{model.CategoryHygiene, "Shower", true, "", 2},
	{model.CategoryHygiene, "Change Clothes", true, "", 3},
	{model.CategoryHelpful, "Make Bed", true, "", 1},
	{model.CategoryHelpful, "Do Dishes", false, "+15 min", 2},
	{model.CategoryHelpful, "Fold Laundry", false, "$2", 3},
}

var weekendSeed = []seedTemplate{
	{model.CategorySchoolwork, "Reading", true, "", 1},
	{model.CategorySchoolwork, "Creative Writing", true, "", 2},
	{model.CategoryHygiene, "Brush Teeth", true, "", 1},
	{model.CategoryHygiene, "Shower", true, "", 2},
	{model.CategoryHelpful, "Make Bed", true, "", 1},
	{model.CategoryHelpful, "Help Cook", false, "+15 min", 2},
	{model.CategoryHelpful, "Yard Help", false, "$2", 3},
}

// Seed installs the default roster and templates on a fresh database. Each
// table is checked independently so a wiped roster does not resurrect the
// default templates, and vice versa.
func (e *Engine) Seed() error {
	childCount, err := e.children.Count()
	if err != nil {
		return err
	}
	if childCount == 0 {
		for i, name := range []string{"Child 1", "Child 2", "Child 3"} {
			if _, err := e.children.CreateAt(name, i, nil); err != nil {
				return err
			}
		}
	}

	templateCount, err := e.templates.Count()
	if err != nil {
		return err
	}
	if templateCount == 0 {
		if err := e.seedTemplates(model.DayTypeWeekday, weekdaySeed); err != nil {
			return err
		}
		if err := e.seedTemplates(model.DayTypeWeekend, weekendSeed); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) seedTemplates(dayType string, seeds []seedTemplate) error {
	for _, s := range seeds {
		var rewardText *string
		if s.rewardText != "" {
			rt := s.rewardText
			rewardText = &rt
		}
		if _, err := e.templates.Create(dayType, s.category, s.title, s.required, rewardText, s.sortOrder, nil); err != nil {
			return err
		}
	}
	return nil
}
