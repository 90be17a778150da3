package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCity(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Tell me hospitals in Bangalore", "Bengaluru"},
		{"hospitals around bengaluru please", "Bengaluru"},
		{"any clinic near CHENNAI", "Chennai"},
		{"I am calling from mumbai", "Mumbai"},
		{"is it in database or in Delhi", "Delhi"},
		{"is it in my network", ""},
		{"in the network", ""},
		{"hello there", ""},
		{"in NY", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractCity(tt.input))
		})
	}
}

func TestNormalizeCity_Idempotent(t *testing.T) {
	for _, in := range []string{"bangalore", "BENGALURU", " Bangalore ", "delhi", "new delhi", ""} {
		once := NormalizeCity(in)
		assert.Equal(t, once, NormalizeCity(once), in)
	}
	assert.Equal(t, "Bengaluru", NormalizeCity("Bangalore"))
	assert.Equal(t, "New Delhi", NormalizeCity("new delhi"))
}

func TestExtractQuantity(t *testing.T) {
	tests := []struct {
		input string
		want  *int
	}{
		{"give me 15 hospitals in Chennai", intPtr(15)},
		{"tell me three hospitals around Pune", intPtr(3)},
		{"show me 2 hospital in Delhi", intPtr(2)},
		{"two hospitals or 5 hospitals", intPtr(5)},
		{"hospitals in Delhi", nil},
		{"give me ten", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ExtractQuantity(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}

func TestExtractHospitalName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"is in pattern collapses brand", "Is Manipal Hospital in Bangalore in my network", "Manipal"},
		{"confirm if with locality", "Can you confirm if Manipal Sarjapur in Bangalore is in my network?", "Manipal"},
		{"any capitalized", "Is there any Apollo Hospital in database?", "Apollo Hospital"},
		{"any stops before network", "do you have any Fortis Clinic in my network", "Fortis Clinic"},
		{"is at pattern", "is Apollo at Chennai", "Apollo"},
		{"bare capitalized", "Where is Narayana Health Centre", "Narayana Health Centre"},
		{"filler trimmed", "is there a apollo hospital in Chennai", "apollo hospital"},
		{"generic noun discarded", "are there hospitals in Delhi", ""},
		{"quantity style digits", "give me 3 hospitals in Chennai", ""},
		{"quantity style words", "Is there two hospitals in Pune", ""},
		{"quantity style tell me", "Tell me hospitals in Bangalore", ""},
		{"nothing", "what's the weather", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractHospitalName(tt.input))
		})
	}
}

func TestExtractHospitalName_ExclusiveWithQuantity(t *testing.T) {
	inputs := []string{
		"give me 15 hospitals in Chennai",
		"Show me Manipal hospitals in Bangalore",
		"Tell me five hospitals around Apollo Hospital",
		"is 3 hospitals in Pune",
		"tell me about every hospital in Delhi",
	}
	for _, in := range inputs {
		assert.True(t, IsQuantityStyle(in), in)
		assert.Empty(t, ExtractHospitalName(in), in)
	}
}

func TestExtract(t *testing.T) {
	got := Extract("Is Manipal Hospital in Bangalore in my network")
	assert.Equal(t, "Bengaluru", got.City)
	assert.Equal(t, "Manipal", got.HospitalName)
	assert.Nil(t, got.Quantity)
}

func TestWantsAllHospitals(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"tell me all hospitals in Delhi", true},
		{"give me the complete list in Pune", true},
		{"show me every hospital around Mumbai", true},
		{"tell me all the hospital names in Delhi", true},
		{"tell me hospitals in Delhi", false},
		{"call the hospital in Delhi", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, WantsAllHospitals(tt.input))
		})
	}
}

func intPtr(n int) *int { return &n }
