package snowflake

import "testing"

func TestGenerateIDIsIncreasing(t *testing.T) {
	prev := GenerateID()
	for i := 0; i < 1000; i++ {
		id := GenerateID()
		if id <= prev {
			t.Fatalf("id %d not greater than previous %d", id, prev)
		}
		prev = id
	}
}
