package vocab

// Default 返回启发式打分使用的词表：14 个症状、10 个疾病及其画像，无生命体征字段。
func Default() *Catalog {
	c := &Catalog{
		Symptoms: []string{
			"fever", "cough", "shortness of breath", "fatigue", "headache",
			"sore throat", "congestion", "nausea", "vomiting", "diarrhea",
			"body aches", "loss of taste or smell", "chills", "dizziness",
		},
		Conditions: defaultConditions(),
		Profiles: map[string][]string{
			"Common Cold":     {"cough", "congestion", "sore throat", "fatigue"},
			"Influenza":       {"fever", "body aches", "fatigue", "headache", "cough"},
			"COVID-19":        {"fever", "cough", "shortness of breath", "loss of taste or smell", "fatigue"},
			"Allergies":       {"congestion", "sore throat", "headache"},
			"Bronchitis":      {"cough", "shortness of breath", "fatigue"},
			"Pneumonia":       {"fever", "cough", "shortness of breath", "fatigue"},
			"Sinusitis":       {"congestion", "headache", "sore throat"},
			"Gastroenteritis": {"nausea", "vomiting", "diarrhea"},
			"Migraine":        {"headache", "nausea", "dizziness"},
			"Dehydration":     {"fatigue", "dizziness", "headache"},
		},
	}
	mustValidate(c)
	return c
}

// ClassifierDefault 返回分类模型使用的词表布局：13 个症状（训练时的顺序）+ 5 个生命体征字段。
// 画像沿用 Default，供 model.SoftmaxFromProfiles 构建内置分类器。
func ClassifierDefault() *Catalog {
	c := &Catalog{
		Symptoms: []string{
			"cough", "fever", "congestion", "sore_throat", "fatigue",
			"body_aches", "headache", "shortness_of_breath", "loss_of_taste_or_smell",
			"nausea", "vomiting", "diarrhea", "dizziness",
		},
		VitalSigns: []string{
			"bodyTemperature", "heartRate", "systolic", "diastolic", "respiratoryRate",
		},
		Conditions: defaultConditions(),
		Profiles: map[string][]string{
			"Common Cold":     {"cough", "congestion", "sore_throat", "fatigue"},
			"Influenza":       {"fever", "body_aches", "fatigue", "headache", "cough"},
			"COVID-19":        {"fever", "cough", "shortness_of_breath", "loss_of_taste_or_smell", "fatigue"},
			"Allergies":       {"congestion", "sore_throat", "headache"},
			"Bronchitis":      {"cough", "shortness_of_breath", "fatigue"},
			"Pneumonia":       {"fever", "cough", "shortness_of_breath", "fatigue"},
			"Sinusitis":       {"congestion", "headache", "sore_throat"},
			"Gastroenteritis": {"nausea", "vomiting", "diarrhea"},
			"Migraine":        {"headache", "nausea", "dizziness"},
			"Dehydration":     {"fatigue", "dizziness", "headache"},
		},
	}
	mustValidate(c)
	return c
}

func defaultConditions() []string {
	return []string{
		"Common Cold", "Influenza", "COVID-19", "Allergies", "Bronchitis",
		"Pneumonia", "Sinusitis", "Gastroenteritis", "Migraine", "Dehydration",
	}
}

func mustValidate(c *Catalog) {
	if err := c.Validate(); err != nil {
		panic(err)
	}
}
