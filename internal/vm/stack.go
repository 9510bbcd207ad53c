package vm

import (
	"fmt"

	"loxvm/internal/value"
)

// stack - LIFO операндов. Переполнение снизу - нарушение инварианта
// компилятора (он эмитит только сбалансированный код), поэтому panic.
type stack struct {
	slots []value.Value
}

func (s *stack) push(v value.Value) {
	s.slots = append(s.slots, v)
}

func (s *stack) pop() value.Value {
	n := len(s.slots)
	if n == 0 {
		panic(fmt.Errorf("vm: pop on empty stack"))
	}
	v := s.slots[n-1]
	s.slots[n-1] = value.Value{} // не держим объект живым
	s.slots = s.slots[:n-1]
	return v
}

// peek смотрит на значение в distance слотах от вершины, не снимая его.
func (s *stack) peek(distance int) value.Value {
	n := len(s.slots)
	if distance < 0 || distance >= n {
		panic(fmt.Errorf("vm: peek(%d) on stack of %d", distance, n))
	}
	return s.slots[n-1-distance]
}

// reset обнуляет стек, сохраняя ёмкость
func (s *stack) reset() {
	clear(s.slots)
	s.slots = s.slots[:0]
}

func (s *stack) len() int { return len(s.slots) }
