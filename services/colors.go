package services

import (
	"math/rand"
	"sync"
	"time"
)

// Палитра основных цветов интерфейса, в том порядке, в котором
// они перечислены в теме клиента.
var MainColors = []string{
	"#001c54", // main-dark-blue
	"#2f80ba", // main-light-blue
	"#c23b3b", // main-red
	"#e0b634", // main-yellow
	"#3f9d5a", // main-green
	"#7a4f9e", // main-purple
}

// ColorPicker раздаёт цвета именованным ресурсам (асигнатурам, типам
// пользователей) на время жизни сессии. Имя получает один из наименее
// использованных цветов палитры, среди равных выбор случайный; повторный
// запрос того же имени возвращает уже выданный цвет. Между перезапусками
// раскраска не сохраняется.
type ColorPicker struct {
	mu       sync.Mutex
	palette  []string
	assigned map[string]string
	rand     *rand.Rand
}

func NewColorPicker() *ColorPicker {
	return &ColorPicker{
		palette:  MainColors,
		assigned: make(map[string]string),
		rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (p *ColorPicker) Pick(name string) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if color, ok := p.assigned[name]; ok {
		return color
	}

	// Считаем, сколько раз выдан каждый цвет палитры
	usage := make(map[string]int, len(p.palette))
	for _, color := range p.palette {
		usage[color] = 0
	}
	for _, color := range p.assigned {
		if _, known := usage[color]; known {
			usage[color]++
		}
	}

	minUsage := -1
	for _, color := range p.palette {
		if minUsage == -1 || usage[color] < minUsage {
			minUsage = usage[color]
		}
	}

	leastUsed := make([]string, 0, len(p.palette))
	for _, color := range p.palette {
		if usage[color] == minUsage {
			leastUsed = append(leastUsed, color)
		}
	}

	chosen := leastUsed[p.rand.Intn(len(leastUsed))]
	p.assigned[name] = chosen
	return chosen
}

// Reset очищает выданные цвета, следующая раздача начнётся заново.
func (p *ColorPicker) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.assigned = make(map[string]string)
}
