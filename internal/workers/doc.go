/*
Package workers sizes worker pools from the CPUs actually available to the
process.

Inside a container runtime.NumCPU reports the host's CPUs while GOMAXPROCS
follows the cgroup limit, so pools are sized from GOMAXPROCS:

	n := workers.ForIO(8) // 2 per CPU, at most 8

The catalog scanner uses ForIO because each probe spends most of its time
in an ffprobe subprocess or in file reads.

# Override

PROBE_WORKERS pins the count, still subject to the cap:

	env:
	- name: PROBE_WORKERS
	  value: "2"

Lower it when probes run on network storage or when ffprobe memory use
pushes the process toward its limit.
*/
package workers
