package practitioner

// defaultPractitioner is the nl-core example health professional used until
// someone picks another author.
const defaultPractitioner = `{
  "resourceType": "Practitioner",
  "id": "nl-core-HealthProfessional-Practitioner-01",
  "meta": {
    "profile": ["http://nictiz.nl/fhir/StructureDefinition/nl-core-HealthProfessional-Practitioner"]
  },
  "identifier": [
    {"system": "http://fhir.nl/fhir/NamingSystem/big", "value": "21870932"}
  ],
  "name": [
    {"use": "official", "text": "J.H.R. Peters", "family": "Peters", "given": ["J.", "H.", "R."]}
  ],
  "telecom": [
    {"system": "phone", "value": "+3715828282", "use": "work"},
    {"system": "email", "value": "j.peters@hospital.nl", "use": "work"}
  ],
  "address": [
    {
      "use": "work",
      "line": ["Simon Smitweg 1"],
      "city": "Leiderdorp",
      "postalCode": "2353 GA",
      "country": "Nederland"
    }
  ]
}`

const defaultPractitionerRole = `{
  "resourceType": "PractitionerRole",
  "id": "nl-core-TreatmentDirective2-01-PractitionerRole-01",
  "meta": {
    "profile": ["http://nictiz.nl/fhir/StructureDefinition/nl-core-HealthProfessional-PractitionerRole"]
  },
  "practitioner": {
    "reference": "Practitioner/nl-core-HealthProfessional-Practitioner-01",
    "type": "Practitioner",
    "display": "Healthcare professional (person), J.H.R. Peters"
  },
  "specialty": [
    {
      "coding": [
        {
          "system": "http://fhir.nl/fhir/NamingSystem/uzi-rolcode",
          "version": "2020-04-01T00:00:00",
          "code": "01.000",
          "display": "Arts"
        }
      ]
    }
  ],
  "telecom": [
    {"system": "phone", "value": "+3715828282", "use": "work"},
    {"system": "email", "value": "j.peters@hospital.nl", "use": "work"}
  ]
}`
