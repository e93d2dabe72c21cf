package model

// Programs names the executables each step invokes.
type Programs struct {
	Designer    string `yaml:"designer"`
	Mrconvert   string `yaml:"mrconvert"`
	Tmi         string `yaml:"tmi"`
	Bash        string `yaml:"bash"`
	DTIQCScript string `yaml:"dtiqc_script"`
}

// DefaultPrograms are the names used inside the pipeline container.
func DefaultPrograms() Programs {
	return Programs{
		Designer:    "designer",
		Mrconvert:   "mrconvert",
		Tmi:         "tmi",
		Bash:        "bash",
		DTIQCScript: "/wrapper/dtiQC.sh",
	}
}
