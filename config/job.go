package config

import (
	"io/ioutil"
	"math"

	"gopkg.in/yaml.v3"
)

// Job is a list of points to draw, in drawing units.
type Job struct {
	Points [][2]float64 `yaml:"points" json:"points"`
}

// LoadJob reads a YAML or JSON job file.
func LoadJob(name string) (*Job, error) {
	data, err := ioutil.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return ParseJob(data)
}

// ParseJob decodes a YAML or JSON job document.
func ParseJob(data []byte) (*Job, error) {
	var j Job
	err := yaml.Unmarshal(data, &j)
	if err != nil {
		return nil, &Error{Option: "points", Message: err.Error(), Cause: err}
	}
	err = j.Validate()
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// Validate rejects points that are NaN or infinite.
func (j *Job) Validate() error {
	for i, p := range j.Points {
		for _, v := range p {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return invalid("points", "point %d (%g, %g) is not finite", i, p[0], p[1])
			}
		}
	}
	return nil
}
