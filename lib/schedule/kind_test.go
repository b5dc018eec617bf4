package schedule

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyDictionary(t *testing.T) {
	cases := []struct {
		in     string
		expect KindCode
	}{
		{"лекция", KindLecture},
		{"Лекция", KindLecture},
		{"  практика  ", KindPractice},
		{"практическое занятие", KindPractice},
		{"практические (семинарские) занятия", KindPractice},
		{"лабораторная работа", KindLabWork},
		{"лабораторная", KindLabWork},
		{"лаб.-практич.занятия", KindLabWork},
		{"проектная деятельность", KindProject},
		{"экзамен", KindExam},
		{"экзамены", KindExam},
		{"зачет", KindCourseCredit},
		{"зачёт", KindCourseCredit},
		{"консультация", KindConsultation},
	}
	for _, test := range cases {
		require.Equal(t, test.expect, Classify(test.in).Code, test.in)
	}
}

func TestClassifyIsTotal(t *testing.T) {
	for _, in := range []string{
		"",
		"   ",
		"курсовая работа",
		"дифференцированный зачет",
		"что-то совсем странное!!!",
		";;;,,,",
	} {
		k := Classify(in)
		require.Equal(t, KindOther, k.Code, in)
	}
}

func TestClassifyComposite(t *testing.T) {
	k := Classify("лекция, практика")
	require.Equal(t, KindOther, k.Code)
	require.Equal(t, "Лек., Пр.", k.Label)

	// identical parts do not collapse
	k = Classify("лекция; лекция")
	require.Equal(t, KindOther, k.Code)
	require.Equal(t, "Лек., Лек.", k.Label)

	// unknown parts keep their own spelling
	k = Classify("лекция, защита")
	require.Equal(t, "Лек., Защита", k.Label)
}

func TestClassifyModeAnnotation(t *testing.T) {
	require.Equal(t, Classify("лекция"), Classify("лекция (вебинар)"))
	require.Equal(t, Classify("практика"), Classify("Практика (Конференция)"))
	require.Equal(t, Classify("зачёт"), Classify("зачёт (вебинар)"))
}

func TestClassifyKindDisplay(t *testing.T) {
	require.Equal(t, "Лекция", Kind{Code: KindLecture}.String())
	require.Equal(t, "Зач.", Kind{Code: KindCourseCredit}.Short())
	require.Equal(t, "Курсовая работа", Kind{Code: KindOther, Label: "курсовая работа"}.String())
	require.Equal(t, "", Kind{Code: KindOther}.String())
}

func TestClassifierObserver(t *testing.T) {
	var seen []string
	c := &Classifier{Observer: func(label string) {
		seen = append(seen, label)
	}}

	c.Classify("лекция")
	c.Classify("лекция")
	c.Classify("практика")
	require.Equal(t, []string{"лекция", "практика"}, seen)

	// nil classifier still classifies
	var nilc *Classifier
	require.Equal(t, KindLecture, nilc.Classify("лекция").Code)
}
