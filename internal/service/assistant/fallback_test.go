package assistant

import "testing"

func TestLocalFallbackRules(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"greeting", "Halo kak", fallbackRules[0].reply},
		{"consultation", "aku mau konsultasi dong", fallbackRules[1].reply},
		{"test", "gimana cara ikut psikotes?", fallbackRules[2].reply},
		{"schedule", "jadwal bimbingan minggu ini apa?", fallbackRules[3].reply},
		{"thanks", "oke terima kasih banyak", fallbackRules[4].reply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LocalFallback(tt.message); got != tt.want {
				t.Errorf("LocalFallback(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestLocalFallbackNeverEmpty(t *testing.T) {
	for _, message := range []string{"", "xyzzy", "???", "lorem ipsum dolor"} {
		if got := LocalFallback(message); got == "" {
			t.Errorf("LocalFallback(%q) returned empty reply", message)
		}
	}
}

func TestClassifier(t *testing.T) {
	c := newClassifier(nil)

	tests := []struct {
		message string
		want    string
	}{
		{"saya mau konsultasi", TopicConsultation},
		{"what were my psychology test results?", TopicTestResults},
		{"catatan siswa kelas XI", TopicBehavior},
		{"kapan jadwal bimbingan berikutnya?", TopicSchedule},
		{"cuaca hari ini bagaimana", ""},
	}
	for _, tt := range tests {
		if got := c.Classify(tt.message); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.message, got, tt.want)
		}
	}
}
