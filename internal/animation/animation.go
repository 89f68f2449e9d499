package animation

// Animation - короткий визуальный эффект, который сам истекает.
// Update вызывается один раз на кадр и возвращает true, когда эффект закончился.
// Рендерер только читает состояние анимации.
type Animation interface {
	Update(frame int64) bool
}

// Placed - анимация, привязанная к тайлу зоны.
type Placed interface {
	Animation
	TileID() string
	Position() (row, col int32)
	// Scale - текущий множитель размера относительно размера тайла.
	Scale() float64
}

// Set - упорядоченный набор активных анимаций.
type Set struct {
	items []Animation
}

func (s *Set) Add(a Animation) {
	s.items = append(s.items, a)
}

// Update продвигает все анимации и убирает истекшие. Возвращает число удаленных.
func (s *Set) Update(frame int64) int {
	kept := s.items[:0]
	removed := 0
	for _, a := range s.items {
		if a.Update(frame) {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	// Обнуляем хвост, чтобы не держать ссылки на истекшие анимации.
	for i := len(kept); i < len(s.items); i++ {
		s.items[i] = nil
	}
	s.items = kept
	return removed
}

func (s *Set) Len() int {
	return len(s.items)
}

// Each обходит активные анимации в порядке добавления.
func (s *Set) Each(fn func(Animation)) {
	for _, a := range s.items {
		fn(a)
	}
}
