package testdata

import (
	"github.com/brianvoe/gofakeit/v7"
)

func RandomName() string {
	return gofakeit.Name()
}

func RandomTitle() string {
	return gofakeit.Adjective() + " " + gofakeit.Noun() + " Survey"
}

func RandomDescription() string {
	return gofakeit.HackerPhrase()
}

func RandomQuestion() string {
	return gofakeit.Question()
}

func RandomWords(n int) []string {
	words := make([]string, n)
	for i := range words {
		words[i] = gofakeit.Word()
	}
	return words
}

func RandomUserID() string {
	return gofakeit.DigitN(6)
}
