package component

import "testing"

func BenchmarkComponent_SetState(b *testing.B) {
	c := New(levelState{Level: 0})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.SetState(levelState{Level: i})
	}
}

func BenchmarkComponent_SetStateNoOp(b *testing.B) {
	c := New(switchState{On: true})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.SetState(switchState{On: true})
	}
}

func BenchmarkComponent_Dispatch(b *testing.B) {
	c := New(levelState{Level: 0})
	for i := 0; i < 8; i++ {
		c.OnState(func(State) {})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.SetState(levelState{Level: i})
	}
}
