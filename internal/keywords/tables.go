package keywords

// Standard library symbol lists. They are exclusion data only: nothing here
// is checked against a real header.

var ansiSymbols = []string{
	"abort", "atexit", "exit",
	"abs", "labs",
	"acos", "asin", "atan", "atan2",
	"asctime", "ctime", "gmtime", "localtime", "strftime",
	"assert",
	"atof", "atoi", "atol", "strtod", "strtol", "strtoul",

	"bsearch", "qsort",

	"calloc", "malloc", "realloc", "free",
	"ceil", "floor",
	"cos", "sin", "tan",
	"cosh", "sinh", "tanh",
	"clock", "difftime", "mktime", "time",

	"div", "ldiv",

	"errno",
	"exp", "frexp", "ldexp",

	"fclose", "fflush",
	"feof", "clearerr", "ferror", "perror",
	"fgetc", "fgets",
	"fgetpos", "fsetpos", "fseek", "ftell", "rewind",
	"fmod", "modf",
	"fopen", "freopen",
	"fprintf", "printf", "sprintf", "vfprintf", "vprintf", "vsprintf",
	"fputc", "fputs",
	"fread", "fwrite",
	"fscanf",

	"getenv",
	"getc", "getchar", "gets",

	"isascii", "isalnum", "isalpha", "iscntrl", "isdigit", "isgraph",
	"islower", "isprint", "ispunct", "isspace", "isupper", "isxdigit",

	"log", "log10",
	"localeconv", "setlocale",
	"longjmp", "setjmp",

	"memcpy", "memmove", "memset", "strcpy", "strncpy",
	"memcmp", "strcmp", "strncmp",
	"memchr", "strchr",
	"offsetof",

	"pow", "sqrt",
	"putc", "putchar", "puts",

	"rand", "srand",
	"raise", "signal",
	"remove", "rename",

	"scanf", "sscanf",
	"setbuf", "setvbuf",
	"strcat", "strncat",
	"strcoll", "strxfrm",
	"strcspn", "strpbrk", "strrchr", "strstr", "strtok",
	"strerror", "strlen",
	"system",

	"tmpfile", "tmpnam",
	"tolower", "toupper",

	"ungetc",
	"va_arg", "va_start", "va_end",
}

var posixSymbols = []string{
	"access", "alarm", "chdir", "chmod", "chown", "close", "closedir",
	"creat", "dup", "dup2", "execl", "execle", "execlp", "execv", "execve",
	"execvp", "_exit", "fcntl", "fdopen", "fileno", "fork", "fpathconf",
	"fstat", "fsync", "ftruncate", "getcwd", "getegid", "geteuid", "getgid",
	"getgrgid", "getgrnam", "getgroups", "getlogin", "getopt", "getpgrp",
	"getpid", "getppid", "getpwnam", "getpwuid", "getuid", "isatty", "kill",
	"link", "lseek", "lstat", "mkdir", "mkfifo", "mmap", "munmap", "nanosleep",
	"open", "opendir", "pathconf", "pause", "pclose", "pipe", "popen",
	"pthread_create", "pthread_detach", "pthread_exit", "pthread_join",
	"pthread_mutex_destroy", "pthread_mutex_init", "pthread_mutex_lock",
	"pthread_mutex_unlock", "pthread_cond_wait", "pthread_cond_signal",
	"pthread_cond_broadcast", "pthread_self",
	"read", "readdir", "readlink", "rewinddir", "rmdir", "select", "setgid",
	"setpgid", "setsid", "setuid", "sigaction", "sigaddset", "sigdelset",
	"sigemptyset", "sigfillset", "sigismember", "siglongjmp", "sigpending",
	"sigprocmask", "sigsetjmp", "sigsuspend", "sleep", "stat", "strdup",
	"symlink", "sysconf", "tcgetattr", "tcsetattr", "times", "ttyname",
	"umask", "uname", "unlink", "utime", "wait", "waitpid", "write",
	"optarg", "optind", "opterr", "optopt", "environ",
}

var c99Symbols = []string{
	"_Exit", "atoll", "strtoll", "strtoull", "strtof", "strtold",
	"llabs", "lldiv", "imaxabs", "imaxdiv", "strtoimax", "strtoumax",
	"snprintf", "vsnprintf", "vscanf", "vfscanf", "vsscanf", "va_copy",
	"isblank", "iswblank",
	"btowc", "wctob", "mbrlen", "mbrtowc", "wcrtomb", "mbsrtowcs", "wcsrtombs",
	"fwprintf", "swprintf", "wprintf", "fwscanf", "swscanf", "wscanf",
	"wcscpy", "wcsncpy", "wcscat", "wcsncat", "wcscmp", "wcsncmp", "wcslen",
	"wcschr", "wcsrchr", "wcsstr", "wcstok", "wmemcpy", "wmemmove", "wmemset",
	"cbrt", "copysign", "erf", "erfc", "exp2", "expm1", "fdim", "fma", "fmax",
	"fmin", "hypot", "ilogb", "lgamma", "llrint", "llround", "log1p", "log2",
	"logb", "lrint", "lround", "nan", "nearbyint", "nextafter", "nexttoward",
	"remainder", "remquo", "rint", "round", "scalbln", "scalbn", "tgamma",
	"trunc", "acosh", "asinh", "atanh",
	"fpclassify", "isfinite", "isinf", "isnan", "isnormal", "signbit",
	"feclearexcept", "fegetenv", "fegetexceptflag", "fegetround",
	"feholdexcept", "feraiseexcept", "fesetenv", "fesetexceptflag",
	"fesetround", "fetestexcept", "feupdateenv",
	"cabs", "carg", "cimag", "conj", "cproj", "creal", "cexp", "clog", "cpow",
	"csqrt",
}

var gccSymbols = []string{
	"__builtin_expect", "__builtin_constant_p", "__builtin_choose_expr",
	"__builtin_types_compatible_p", "__builtin_offsetof", "__builtin_va_arg",
	"__builtin_va_start", "__builtin_va_end", "__builtin_va_copy",
	"__builtin_va_list", "__builtin_alloca", "__builtin_memcpy",
	"__builtin_memset", "__builtin_memcmp", "__builtin_strlen",
	"__builtin_strcmp", "__builtin_abort", "__builtin_trap",
	"__builtin_unreachable", "__builtin_return_address",
	"__builtin_frame_address", "__builtin_prefetch", "__builtin_clz",
	"__builtin_ctz", "__builtin_popcount", "__builtin_parity", "__builtin_ffs",
	"__builtin_bswap16", "__builtin_bswap32", "__builtin_bswap64",
	"__builtin_object_size", "__builtin_classify_type",
	"__builtin_add_overflow", "__builtin_sub_overflow",
	"__builtin_mul_overflow",
	"__sync_fetch_and_add", "__sync_fetch_and_sub", "__sync_fetch_and_or",
	"__sync_fetch_and_and", "__sync_fetch_and_xor",
	"__sync_bool_compare_and_swap", "__sync_val_compare_and_swap",
	"__sync_synchronize", "__sync_lock_test_and_set", "__sync_lock_release",
	"__atomic_load_n", "__atomic_store_n", "__atomic_exchange_n",
	"__atomic_compare_exchange_n", "__atomic_fetch_add", "__atomic_fetch_sub",
	"__attribute__", "__extension__", "__typeof__", "__alignof__",
	"__asm__", "__inline__", "__restrict__", "__volatile__",
	"__func__", "__FUNCTION__", "__PRETTY_FUNCTION__",
	"alloca", "typeof",
}
