package config

import "errors"

var ErrFileDoesNotExist = errors.New("config file does not exist")
var ErrReadConfigFail = errors.New("failed to read config file")
var ErrConfigParsingFail = errors.New("failed to parse config file")
var ErrInvalidConfig = errors.New("invalid config file")
var ErrNoSeeds = errors.New("site has neither seedPaths nor a single-file fileUrl")
var ErrInvalidExcludePattern = errors.New("exclude pattern is not a valid regular expression")
var ErrInvalidBaseURL = errors.New("baseUrl is not a valid absolute URL")
var ErrUnknownSite = errors.New("no configuration found for requested site")
