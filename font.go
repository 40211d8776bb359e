package posture

// Font selects one of the two core fonts used by the layout engine. Both are
// standard Type1 fonts every PDF reader ships, so no font program is embedded;
// only their metric tables are needed for measurement.
type Font int

const (
	// Helvetica is the body font.
	Helvetica Font = iota
	// HelveticaBold is the heading/emphasis font.
	HelveticaBold
)

// BaseFont returns the PDF BaseFont name.
func (f Font) BaseFont() string {
	if f == HelveticaBold {
		return "Helvetica-Bold"
	}
	return "Helvetica"
}

// resource returns the content-stream font resource name.
func (f Font) resource() string {
	if f == HelveticaBold {
		return "F2"
	}
	return "F1"
}

func (f Font) widths() *[256]int {
	if f == HelveticaBold {
		return &helveticaBoldWidths
	}
	return &helveticaWidths
}

// StringWidth returns the rendered width of s at the given size, in page
// units. The text is measured over its WinAnsi encoding, the same bytes the
// writer emits, so measurement and rendering always agree.
func StringWidth(s string, font Font, size float64) float64 {
	cw := font.widths()
	w := 0
	for _, b := range encodeWinAnsi(s) {
		w += cw[b]
	}
	return float64(w) * size / 1000
}

// winAnsiOverrides maps the typographic runes that WinAnsi places in the
// 0x80-0x9F range. Runes 0xA0-0xFF coincide with Latin-1 and need no entry.
var winAnsiOverrides = map[rune]byte{
	'€': 0x80,
	'‚': 0x82,
	'ƒ': 0x83,
	'„': 0x84,
	'…': 0x85,
	'†': 0x86,
	'‡': 0x87,
	'ˆ': 0x88,
	'‰': 0x89,
	'Š': 0x8A,
	'‹': 0x8B,
	'Œ': 0x8C,
	'Ž': 0x8E,
	'‘': 0x91,
	'’': 0x92,
	'“': 0x93,
	'”': 0x94,
	'•': 0x95,
	'–': 0x96,
	'—': 0x97,
	'˜': 0x98,
	'™': 0x99,
	'š': 0x9A,
	'›': 0x9B,
	'œ': 0x9C,
	'ž': 0x9E,
	'Ÿ': 0x9F,
}

// encodeWinAnsi converts a string to WinAnsi bytes. Runes the encoding cannot
// represent become '?'; encoding never fails.
func encodeWinAnsi(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		switch {
		case r < 0x80:
			out = append(out, byte(r))
		case r >= 0xA0 && r <= 0xFF:
			out = append(out, byte(r))
		default:
			if b, ok := winAnsiOverrides[r]; ok {
				out = append(out, b)
			} else {
				out = append(out, '?')
			}
		}
	}
	return out
}

// helveticaWidths holds Helvetica glyph widths in 1/1000 em, indexed by
// WinAnsi code. Values are the standard Adobe AFM metrics.
var helveticaWidths = [256]int{
	278, 278, 278, 278, 278, 278, 278, 278, // 0x00-0x07
	278, 278, 278, 278, 278, 278, 278, 278, // 0x08-0x0F
	278, 278, 278, 278, 278, 278, 278, 278, // 0x10-0x17
	278, 278, 278, 278, 278, 278, 278, 278, // 0x18-0x1F
	278, 278, 355, 556, 556, 889, 667, 191, // 0x20-0x27  space ! " # $ % & '
	333, 333, 389, 584, 278, 333, 278, 278, // 0x28-0x2F  ( ) * + , - . /
	556, 556, 556, 556, 556, 556, 556, 556, // 0x30-0x37  0-7
	556, 556, 278, 278, 584, 584, 584, 556, // 0x38-0x3F  8 9 : ; < = > ?
	1015, 667, 667, 722, 722, 667, 611, 778, // 0x40-0x47  @ A-G
	722, 278, 500, 667, 556, 833, 722, 778, // 0x48-0x4F  H-O
	667, 778, 722, 667, 611, 722, 667, 944, // 0x50-0x57  P-W
	667, 667, 611, 278, 278, 278, 469, 556, // 0x58-0x5F  X Y Z [ \ ] ^ _
	333, 556, 556, 500, 556, 556, 278, 556, // 0x60-0x67  ` a-g
	556, 222, 222, 500, 222, 833, 556, 556, // 0x68-0x6F  h-o
	556, 556, 333, 500, 278, 556, 500, 722, // 0x70-0x77  p-w
	500, 500, 500, 334, 260, 334, 584, 350, // 0x78-0x7F  x y z { | } ~
	556, 350, 222, 556, 333, 1000, 556, 556, // 0x80-0x87  € ‚ ƒ „ … † ‡
	333, 1000, 667, 333, 1000, 350, 611, 350, // 0x88-0x8F  ˆ ‰ Š ‹ Œ Ž
	350, 222, 222, 333, 333, 350, 556, 1000, // 0x90-0x97  ‘ ’ “ ” • – —
	333, 1000, 500, 333, 944, 350, 500, 667, // 0x98-0x9F  ˜ ™ š › œ ž Ÿ
	278, 333, 556, 556, 556, 556, 260, 556, // 0xA0-0xA7  nbsp ¡ ¢ £ ¤ ¥ ¦ §
	333, 737, 370, 556, 584, 333, 737, 333, // 0xA8-0xAF  ¨ © ª « ¬ ­ ® ¯
	400, 584, 333, 333, 333, 556, 537, 278, // 0xB0-0xB7  ° ± ² ³ ´ µ ¶ ·
	333, 333, 365, 556, 834, 834, 834, 611, // 0xB8-0xBF  ¸ ¹ º » ¼ ½ ¾ ¿
	667, 667, 667, 667, 667, 667, 1000, 722, // 0xC0-0xC7  À-Å Æ Ç
	667, 667, 667, 667, 278, 278, 278, 278, // 0xC8-0xCF  È-Ë Ì-Ï
	722, 722, 778, 778, 778, 778, 778, 584, // 0xD0-0xD7  Ð Ñ Ò-Ö ×
	778, 722, 722, 722, 722, 667, 667, 611, // 0xD8-0xDF  Ø Ù-Ü Ý Þ ß
	556, 556, 556, 556, 556, 556, 889, 500, // 0xE0-0xE7  à-å æ ç
	556, 556, 556, 556, 278, 278, 278, 278, // 0xE8-0xEF  è-ë ì-ï
	556, 556, 556, 556, 556, 556, 556, 584, // 0xF0-0xF7  ð ñ ò-ö ÷
	611, 556, 556, 556, 556, 500, 556, 500, // 0xF8-0xFF  ø ù-ü ý þ ÿ
}

// helveticaBoldWidths holds Helvetica-Bold glyph widths in 1/1000 em.
var helveticaBoldWidths = [256]int{
	278, 278, 278, 278, 278, 278, 278, 278, // 0x00-0x07
	278, 278, 278, 278, 278, 278, 278, 278, // 0x08-0x0F
	278, 278, 278, 278, 278, 278, 278, 278, // 0x10-0x17
	278, 278, 278, 278, 278, 278, 278, 278, // 0x18-0x1F
	278, 333, 474, 556, 556, 889, 722, 238, // 0x20-0x27  space ! " # $ % & '
	333, 333, 389, 584, 278, 333, 278, 278, // 0x28-0x2F  ( ) * + , - . /
	556, 556, 556, 556, 556, 556, 556, 556, // 0x30-0x37  0-7
	556, 556, 333, 333, 584, 584, 584, 611, // 0x38-0x3F  8 9 : ; < = > ?
	975, 722, 722, 722, 722, 667, 611, 778, // 0x40-0x47  @ A-G
	722, 278, 556, 722, 611, 833, 722, 778, // 0x48-0x4F  H-O
	667, 778, 722, 667, 611, 722, 667, 944, // 0x50-0x57  P-W
	667, 667, 611, 333, 278, 333, 584, 556, // 0x58-0x5F  X Y Z [ \ ] ^ _
	333, 556, 611, 556, 611, 556, 333, 611, // 0x60-0x67  ` a-g
	611, 278, 278, 556, 278, 889, 611, 611, // 0x68-0x6F  h-o
	611, 611, 389, 556, 333, 611, 556, 778, // 0x70-0x77  p-w
	556, 556, 500, 389, 280, 389, 584, 350, // 0x78-0x7F  x y z { | } ~
	556, 350, 278, 556, 500, 1000, 556, 556, // 0x80-0x87  € ‚ ƒ „ … † ‡
	333, 1000, 667, 333, 1000, 350, 611, 350, // 0x88-0x8F  ˆ ‰ Š ‹ Œ Ž
	350, 278, 278, 500, 500, 350, 556, 1000, // 0x90-0x97  ‘ ’ “ ” • – —
	333, 1000, 556, 333, 944, 350, 500, 667, // 0x98-0x9F  ˜ ™ š › œ ž Ÿ
	278, 333, 556, 556, 556, 556, 280, 556, // 0xA0-0xA7  nbsp ¡ ¢ £ ¤ ¥ ¦ §
	333, 737, 370, 556, 584, 333, 737, 333, // 0xA8-0xAF  ¨ © ª « ¬ ­ ® ¯
	400, 584, 333, 333, 333, 611, 556, 278, // 0xB0-0xB7  ° ± ² ³ ´ µ ¶ ·
	333, 333, 365, 556, 834, 834, 834, 611, // 0xB8-0xBF  ¸ ¹ º » ¼ ½ ¾ ¿
	722, 722, 722, 722, 722, 722, 1000, 722, // 0xC0-0xC7  À-Å Æ Ç
	667, 667, 667, 667, 278, 278, 278, 278, // 0xC8-0xCF  È-Ë Ì-Ï
	722, 722, 778, 778, 778, 778, 778, 584, // 0xD0-0xD7  Ð Ñ Ò-Ö ×
	778, 722, 722, 722, 722, 667, 667, 611, // 0xD8-0xDF  Ø Ù-Ü Ý Þ ß
	556, 556, 556, 556, 556, 556, 889, 556, // 0xE0-0xE7  à-å æ ç
	556, 556, 556, 556, 278, 278, 278, 278, // 0xE8-0xEF  è-ë ì-ï
	611, 611, 611, 611, 611, 611, 611, 584, // 0xF0-0xF7  ð ñ ò-ö ÷
	611, 611, 611, 611, 611, 556, 611, 556, // 0xF8-0xFF  ø ù-ü ý þ ÿ
}
