package asset

// LoaderBuilderOption is a functional option for configuring a Loader.
// Use the With* functions to create options that are applied directly to the loader instance.
type LoaderBuilderOption func(*loaderImpl)

// WithTarget registers a target name with its track decoder during loader
// construction. Equivalent to calling RegisterTarget after NewLoader.
//
// Parameters:
//   - target: the target name used in definition files
//   - decoder: the decoder building tracks for this target
//
// Returns:
//   - LoaderBuilderOption: option function to apply
func WithTarget(target string, decoder TrackDecoder) LoaderBuilderOption {
	return func(l *loaderImpl) {
		l.decoders[target] = decoder
	}
}
