package spell

// School is a school of magic. The set of schools is closed.
type School string

const (
	Abjuracao    School = "Abjuração"
	Adivinhacao  School = "Adivinhação"
	Encantamento School = "Encantamento"
	Evocacao     School = "Evocação"
	Ilusao       School = "Ilusão"
	Invocacao    School = "Invocação"
	Necromancia  School = "Necromancia"
	Transmutacao School = "Transmutação"
	// Conjuracao is the legacy name still found in older sources.
	Conjuracao School = "Conjuração"
)

// Schools lists every known school.
var Schools = []School{
	Abjuracao, Adivinhacao, Encantamento, Evocacao, Ilusao,
	Invocacao, Necromancia, Transmutacao, Conjuracao,
}

// Valid reports whether s is a known school.
func (s School) Valid() bool {
	for _, known := range Schools {
		if s == known {
			return true
		}
	}
	return false
}

// Class is a spellcasting character class. The set of classes is closed.
type Class string

const (
	Bardo      Class = "Bardo"
	Bruxo      Class = "Bruxo"
	Clerigo    Class = "Clérigo"
	Druida     Class = "Druida"
	Feiticeiro Class = "Feiticeiro"
	Guardiao   Class = "Guardião"
	Mago       Class = "Mago"
	Paladino   Class = "Paladino"
)

// Classes lists every known class.
var Classes = []Class{
	Bardo, Bruxo, Clerigo, Druida, Feiticeiro, Guardiao, Mago, Paladino,
}

// Valid reports whether c is a known class.
func (c Class) Valid() bool {
	for _, known := range Classes {
		if c == known {
			return true
		}
	}
	return false
}
