package assistant

import "strings"

// fallbackRule is one entry of the client-facing rule-based responder. It
// is deliberately simpler than the topic table: a flat keyword list and a
// canned reply, no data access.
type fallbackRule struct {
	keywords []string
	reply    string
}

var fallbackRules = []fallbackRule{
	{
		keywords: []string{"halo", "hai", "hello", "selamat pagi", "selamat siang", "selamat sore"},
		reply:    "Halo! Saya asisten bimbingan konseling. Ada yang bisa saya bantu seputar konsultasi, tes psikologi, atau jadwal bimbingan?",
	},
	{
		keywords: []string{"konsultasi", "curhat", "masalah"},
		reply:    "Untuk memulai konsultasi, buka menu Konsultasi lalu tekan tombol buat konsultasi baru. Guru BK akan merespons secepatnya.",
	},
	{
		keywords: []string{"tes", "psikotes", "kepribadian"},
		reply:    "Kamu bisa mengikuti tes psikologi di menu Tes Psikologi. Pilih tes yang tersedia, jawab semua pertanyaan, lalu kirim untuk melihat hasilnya.",
	},
	{
		keywords: []string{"jadwal", "janji", "bimbingan"},
		reply:    "Jadwal bimbingan bisa dilihat di menu Jadwal. Jika perlu mengubah jadwal, hubungi guru BK melalui konsultasi.",
	},
	{
		keywords: []string{"terima kasih", "makasih", "thanks"},
		reply:    "Sama-sama! Jangan ragu untuk bertanya lagi.",
	},
}

const fallbackDefaultReply = "Maaf, saya belum memahami pertanyaan itu. Coba tanyakan seputar konsultasi, tes psikologi, jadwal bimbingan, atau hubungi guru BK langsung."

// LocalFallback is the deterministic responder the client uses when the
// server is unreachable or the caller asks for an offline answer. It always
// returns a non-empty string.
func LocalFallback(message string) string {
	lowered := strings.ToLower(message)
	for _, rule := range fallbackRules {
		for _, k := range rule.keywords {
			if strings.Contains(lowered, k) {
				return rule.reply
			}
		}
	}
	return fallbackDefaultReply
}
