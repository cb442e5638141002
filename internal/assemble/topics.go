package assemble

import (
	"sort"
	"strings"
	"unicode"
)

const maxKeyTopics = 15

// Stopword lists per supported language code. Unknown languages fall back
// to English.
var stopwords = map[string]map[string]struct{}{
	"en": wordSet("the a an and or but in on at to for of with by from as is are was were be been being this that these those it its have has had not no can will would should could about into over under between"),
	"ar": wordSet("في من إلى على عن مع هذا هذه ذلك تلك التي الذي و أو ثم لا ما كان كانت هو هي هم أن إن لكن قد كل بعض عند حتى"),
	"de": wordSet("der die das ein eine und oder aber in auf an zu für von mit bei aus als ist sind war waren sein nicht kein man dem den des im am um über unter zwischen auch"),
	"fr": wordSet("le la les un une des et ou mais dans sur à pour de du avec par comme est sont était être pas ne ce cette ces il elle ils elles que qui dont où plus"),
	"es": wordSet("el la los las un una unos unas y o pero en sobre a para de del con por como es son era ser no este esta estos estas que quien donde más"),
	"it": wordSet("il lo la i gli le un una e o ma in su a per di del con da come è sono era essere non questo questa questi queste che chi dove più"),
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}

// ExtractKeyTopics ranks recurring terms in the text by frequency. Two-word
// phrases outrank single words; the list is capped at fifteen entries.
func ExtractKeyTopics(text, language string) []string {
	stops, ok := stopwords[strings.ToLower(language)]
	if !ok {
		stops = stopwords["en"]
	}

	tokens := tokenize(text)
	wordFreq := make(map[string]int)
	phraseFreq := make(map[string]int)

	var prev string
	for _, tok := range tokens {
		lower := strings.ToLower(tok)
		if _, stop := stops[lower]; stop || len([]rune(lower)) < 4 {
			prev = ""
			continue
		}
		wordFreq[lower]++
		if prev != "" {
			phraseFreq[prev+" "+lower]++
		}
		prev = lower
	}

	topics := make([]string, 0, maxKeyTopics)
	seen := make(map[string]struct{})

	for _, phrase := range rankByFrequency(phraseFreq, 2) {
		if len(topics) >= maxKeyTopics {
			break
		}
		topics = append(topics, phrase)
		for _, part := range strings.Fields(phrase) {
			seen[part] = struct{}{}
		}
	}
	for _, word := range rankByFrequency(wordFreq, 2) {
		if len(topics) >= maxKeyTopics {
			break
		}
		if _, dup := seen[word]; dup {
			continue
		}
		topics = append(topics, word)
	}
	return topics
}

// rankByFrequency returns keys with at least minFreq occurrences, most
// frequent first, ties broken alphabetically for stable output.
func rankByFrequency(freq map[string]int, minFreq int) []string {
	keys := make([]string, 0, len(freq))
	for k, n := range freq {
		if n >= minFreq {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if freq[keys[i]] != freq[keys[j]] {
			return freq[keys[i]] > freq[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

// tokenize splits text on anything that is not a letter, keeping Unicode
// words intact for non-Latin scripts.
func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '-'
	})
}
