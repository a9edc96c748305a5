// Package classify maps raw category hints plus title/URL text into the
// fixed article taxonomy via keyword membership. The keyword table is a
// configuration artifact expected to be refined over time, not a frozen
// contract.
package classify

import "strings"

// Taxonomy labels.
const (
	Regional      = "Regional"
	HukumKriminal = "Hukum & Kriminal"
	Pemerintahan  = "Pemerintahan"
	Ekonomi       = "Ekonomi"
	Olahraga      = "Olahraga"
	Pendidikan    = "Pendidikan"
	Kesehatan     = "Kesehatan"
	SosialBudaya  = "Sosial & Budaya"
	Teknologi     = "Teknologi"
	Lingkungan    = "Lingkungan"
	Otomotif      = "Otomotif"
	Opini         = "Opini"
	Nasional      = "Nasional"
)

// regionalKeywords trigger the Regional override. This check beats every
// other signal, including an already-specific raw category.
var regionalKeywords = []string{"mimika", "timika", "papua", "jayapura", "regional", "daerah"}

// generics are raw categories too vague to keep as a fallback label.
var generics = map[string]bool{
	"news": true, "berita": true, "artikel": true, "index": true,
	"search": true, "": true, "nasional": true, "umum": true,
}

// mapping pairs a taxonomy label with its trigger keywords. Order is
// significant: the first label with any keyword present wins.
type mapping struct {
	label    string
	keywords []string
}

var mappings = []mapping{
	{HukumKriminal, []string{"hukum", "kriminal", "polisi", "pengadilan", "kehakiman", "pidana", "perdata", "tewas", "dibunuh", "pembunuhan", "narkoba", "korupsi", "kpk", "polres", "polda"}},
	{Pemerintahan, []string{"pemerintah", "politik", "dprd", "bupati", "pemda", "birokrasi", "kebijakan", "jokowi", "menteri", "partai", "pilkada", "pemilu"}},
	{Ekonomi, []string{"ekonomi", "bisnis", "keuangan", "finansial", "pasar", "saham", "properti", "industri", "dagang", "umkm", "investasi", "modal", "harga"}},
	{Olahraga, []string{"olahraga", "bola", "sport", "sepakbola", "badminton", "atlet", "pssi", "liga", "pertandingan"}},
	{Pendidikan, []string{"pendidikan", "sekolah", "kampus", "kuliah", "edukasi", "guru", "siswa", "mahasiswa", "beasiswa", "pelajar"}},
	{Kesehatan, []string{"kesehatan", "medis", "dokter", "rumah sakit", "rsud", "penyakit", "obat", "stunting", "vaksin", "puskesmas"}},
	{SosialBudaya, []string{"sosial", "budaya", "seni", "hiburan", "lifestyle", "gaya hidup", "travel", "wisata", "seleb", "artis", "adat", "warga"}},
	{Teknologi, []string{"teknologi", "tekno", "sains", "gadget", "internet", "digital", "aplikasi", "sistem", "cyber"}},
	{Lingkungan, []string{"lingkungan", "alam", "forestri", "hutan", "cuaca", "bencana", "banjir", "gempa", "sampah", "konservasi"}},
	{Otomotif, []string{"otomotif", "motor", "mobil", "kendaraan"}},
	{Opini, []string{"opini", "tajuk", "kolom", "surat pembaca", "editorial"}},
}

// Normalize classifies an article from its raw category hint, title, and
// URL. Pure and deterministic: identical inputs always yield the same label.
func Normalize(rawCategory, title, url string) string {
	catLower := strings.ToLower(strings.TrimSpace(rawCategory))

	text := catLower + " " + strings.ToLower(title) + " " + strings.ToLower(url)

	// The regional check is a plain substring test: site names like
	// "seputarpapua.com" must still trigger it.
	for _, kw := range regionalKeywords {
		if strings.Contains(text, kw) {
			return Regional
		}
	}

	for _, m := range mappings {
		for _, kw := range m.keywords {
			if containsWord(text, kw) {
				return m.label
			}
		}
	}

	// A specific, reasonably short raw category survives as a title-cased
	// fallback label.
	if !generics[catLower] && len(catLower) < 20 {
		return titleCase(catLower)
	}

	return Nasional
}

// containsWord reports whether kw occurs in text bounded by non-alphanumeric
// characters, so "olahraga" matches "/olahraga/" but not "olahragaunik".
func containsWord(text, kw string) bool {
	for start := 0; ; {
		i := strings.Index(text[start:], kw)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(kw)
		leftOK := i == 0 || !isWordByte(text[i-1])
		rightOK := end == len(text) || !isWordByte(text[end])
		if leftOK && rightOK {
			return true
		}
		start = i + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// titleCase uppercases the first letter of each space-separated word.
// strings.Title is deprecated and cases/Title depends on language tags;
// raw category labels here are plain ASCII site slugs.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
