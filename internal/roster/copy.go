package roster

import "fmt"

// Copy is the user-visible text of the roster widgets in one language.
type Copy struct {
	DivisionFallback string // "%d", 1-based
	DivisionTitle    string
	DivisionNotFound string
	GroupAll         string
	PlayerBadge      string // "%d", 1-based
	PhotoAlt         string
	NoPhoto          string
	OpenSlot         string
	Rating           string // "%s"
	TeamPair         string // "%s", "%s"
	TeamOpenPair     string // "%s"
	Solo             string
	Unnamed          string
	AverageRating    string // "%s"
	PhotoHint        string
	StatusMore       string
	StatusLess       string
	CTATitle         string
	CTAAction        string
	Empty            string
	LoadError        string
	LoadErrorGeneric string
}

// DefaultCopy is the Russian copy of the league site.
func DefaultCopy() Copy {
	return Copy{
		DivisionFallback: "Дивизион %d",
		DivisionTitle:    "Дивизион",
		DivisionNotFound: "Не удалось найти выбранный дивизион.",
		GroupAll:         "Все",
		PlayerBadge:      "Игрок %d",
		PhotoAlt:         "Фото игрока",
		NoPhoto:          "Фото не загружено",
		OpenSlot:         "Свободно",
		Rating:           "Рейтинг: %s",
		TeamPair:         "%s — %s",
		TeamOpenPair:     "%s — свободно",
		Solo:             "Одиночная заявка",
		Unnamed:          "Заявка без имени",
		AverageRating:    "СР. РЕЙТИНГ %s",
		PhotoHint:        "Чтобы добавить фото, напишите @Etokone.",
		StatusMore:       "Ещё",
		StatusLess:       "Скрыть",
		CTATitle:         "Присоединиться к сезону",
		CTAAction:        "Подать заявку",
		Empty:            "Заявок пока нет. Нажмите «Подать заявку», чтобы попасть в список.",
		LoadError:        "Не удалось загрузить данные. Свяжитесь с администратором.",
		LoadErrorGeneric: "Не удалось загрузить список команд. Попробуйте обновить страницу.",
	}
}

// NewCopy fills Copy from a translation lookup. Keys the lookup does not know
// (it returns the key itself, or "") keep the default text.
func NewCopy(lookup func(key string) string) Copy {
	c := DefaultCopy()
	if lookup == nil {
		return c
	}
	fields := []struct {
		key string
		dst *string
	}{
		{"roster.division.fallback", &c.DivisionFallback},
		{"roster.division.title_fallback", &c.DivisionTitle},
		{"roster.division.not_found", &c.DivisionNotFound},
		{"roster.group.all", &c.GroupAll},
		{"roster.player.badge", &c.PlayerBadge},
		{"roster.player.photo_alt", &c.PhotoAlt},
		{"roster.player.no_photo", &c.NoPhoto},
		{"roster.player.open_slot", &c.OpenSlot},
		{"roster.player.rating", &c.Rating},
		{"roster.team.pair", &c.TeamPair},
		{"roster.team.open_pair", &c.TeamOpenPair},
		{"roster.team.solo", &c.Solo},
		{"roster.team.unnamed", &c.Unnamed},
		{"roster.team.average", &c.AverageRating},
		{"roster.status.photo_hint", &c.PhotoHint},
		{"roster.status.more", &c.StatusMore},
		{"roster.status.less", &c.StatusLess},
		{"roster.cta.title", &c.CTATitle},
		{"roster.cta.action", &c.CTAAction},
		{"roster.empty", &c.Empty},
		{"roster.load_error", &c.LoadError},
		{"roster.load_error_generic", &c.LoadErrorGeneric},
	}
	for _, f := range fields {
		if v := lookup(f.key); v != "" && v != f.key {
			*f.dst = v
		}
	}
	return c
}

func (c Copy) divisionTab(index int) string { return fmt.Sprintf(c.DivisionFallback, index+1) }
func (c Copy) playerBadge(index int) string { return fmt.Sprintf(c.PlayerBadge, index+1) }
func (c Copy) rating(value string) string { return fmt.Sprintf(c.Rating, value) }
func (c Copy) average(value string) string { return fmt.Sprintf(c.AverageRating, value) }
func (c Copy) pair(a, b string) string { return fmt.Sprintf(c.TeamPair, a, b) }
func (c Copy) openPair(a string) string { return fmt.Sprintf(c.TeamOpenPair, a) }
